package tokens

import "errors"

var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpiredToken     = errors.New("token expired")
	ErrRevokedToken     = errors.New("token revoked")
	ErrWrongTokenKind   = errors.New("wrong token kind")
)

var rejections = []error{
	ErrMalformedToken,
	ErrInvalidSignature,
	ErrExpiredToken,
	ErrRevokedToken,
	ErrWrongTokenKind,
}

// IsRejected reports whether err is one of the verification failures. Callers
// surface all of them identically.
func IsRejected(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
