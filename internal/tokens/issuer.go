package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/voting_auth/internal/models"
)

type Issuer struct {
	Keys       Keys
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

func NewIssuer(keys Keys, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		Keys:       keys,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		Now:        time.Now,
	}
}

func (i *Issuer) IssueAccess(u *models.User) (*Token, error) {
	return i.issue(KindAccess, u, i.AccessTTL, "")
}

// IssueAccessFor issues an access token linked to the refresh token refreshJTI.
func (i *Issuer) IssueAccessFor(u *models.User, refreshJTI string) (*Token, error) {
	return i.issue(KindAccess, u, i.AccessTTL, refreshJTI)
}

func (i *Issuer) IssueRefresh(u *models.User) (*Token, error) {
	return i.issue(KindRefresh, u, i.RefreshTTL, "")
}

func (i *Issuer) IssuePair(u *models.User) (*Pair, error) {
	refresh, err := i.IssueRefresh(u)
	if err != nil {
		return nil, err
	}
	access, err := i.IssueAccessFor(u, refresh.Claims.ID)
	if err != nil {
		return nil, err
	}
	return &Pair{Access: access, Refresh: refresh}, nil
}

func (i *Issuer) issue(kind Kind, u *models.User, ttl time.Duration, rid string) (*Token, error) {
	key, ok := i.Keys.For(kind)
	if !ok {
		return nil, fmt.Errorf("no signing key for %s tokens", kind)
	}

	now := i.Now()
	claims := &Claims{
		Kind:      kind,
		IsAdmin:   u.IsAdmin,
		RefreshID: rid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return &Token{Value: signed, Claims: claims}, nil
}
