package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/homerportes/RealStateRD/internal/domain"
	"github.com/homerportes/RealStateRD/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	users      UserRepository
	tokens     RefreshTokenRepository
	jwt        *jwt.Service
	refreshTTL time.Duration
}

func NewService(users UserRepository, tokens RefreshTokenRepository, jwtSvc *jwt.Service, refreshTTL time.Duration) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		jwt:        jwtSvc,
		refreshTTL: refreshTTL,
	}
}

// Register creates an account with the user role. Admins are never created
// through this endpoint, only by the seeder.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The pre-check races with concurrent registers; the unique index
		// on email is the real guard.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. A revoked or expired token is rejected.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (*AuthResult, error) {
	current, err := s.tokens.GetByHash(ctx, hashToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	now := time.Now()
	if current.RevokedAt != nil || current.Expired(now) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if err := s.tokens.Revoke(ctx, current.ID, now); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, expiresAt, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	raw, hash, err := generateOpaqueToken()
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Create(ctx, &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		JTI:       uuid.NewString(),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         toUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: raw,
		ExpiresAt:    expiresAt.Format(time.RFC3339),
	}, nil
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

// Refresh tokens are opaque random strings; only the hash is stored.
func generateOpaqueToken() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, hashToken(raw), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
