package repository

import (
	"context"
	"time"

	"github.com/homerportes/RealStateRD/internal/domain"

	"gorm.io/gorm"
)

// RefreshTokenRepository provides DB access for refresh tokens.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *RefreshTokenRepository) GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	tx := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&t)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &t, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at).Error
}

// DeleteExpired prunes tokens past their expiry. Called from the seed/cleanup
// entrypoint, not the request path.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&domain.RefreshToken{})
	return tx.RowsAffected, tx.Error
}
