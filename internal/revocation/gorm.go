package revocation

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/voting_auth/internal/models"
)

type GormRegistry struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewGormRegistry(db *gorm.DB) *GormRegistry {
	return &GormRegistry{DB: db, Now: time.Now}
}

func (r *GormRegistry) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	entry := models.RevokedToken{
		JTI:       jti,
		RevokedAt: r.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
	}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("revoke %s: %w", jti, err)
	}
	return nil
}

func (r *GormRegistry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ? AND expires_at > ?", jti, r.Now().UTC()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check revocation %s: %w", jti, err)
	}
	return count > 0, nil
}

func (r *GormRegistry) PurgeExpired(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at <= ?", r.Now().UTC()).
		Delete(&models.RevokedToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge revocations: %w", res.Error)
	}
	return res.RowsAffected, nil
}
