package domain

import "time"

// RefreshToken is an opaque session token. Only the sha256 hash is stored.
type RefreshToken struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	UserID    int64      `json:"user_id" gorm:"index"`
	TokenHash string     `json:"-" gorm:"uniqueIndex"`
	JTI       string     `json:"-" gorm:"column:jti"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
