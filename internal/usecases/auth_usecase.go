package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/domain/repositories"
	"taskbridge.backend/pkg/crypto"
	"taskbridge.backend/pkg/jwt"
)

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	tokenRepo  repositories.RefreshTokenRepository
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository,
	jwtService *jwt.JWTService,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
	}
}

// Register creates a user and signs them in. The region is derived from the
// currency hint: INR maps to INDIA, everything else to FOREIGN.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.Conflict("email already registered")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entities.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: passwordHash,
		Role:         entities.UserRoleUser,
		Region:       entities.RegionFromCurrency(input.Currency),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return u.issueTokens(ctx, user)
}

// Login authenticates a user and returns a fresh token pair. Unknown email
// and wrong password produce the same error.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user)
}

// Refresh rotates a refresh token. The presented token is consumed by a
// single atomic delete; a second presentation of the same value fails, so a
// replayed token never yields a session.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	if err := u.tokenRepo.Delete(ctx, refreshToken); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}

	return u.issueTokens(ctx, user)
}

// Logout revokes every refresh token the user holds
func (u *AuthUsecase) Logout(ctx context.Context, userID uuid.UUID) error {
	return u.tokenRepo.DeleteAllForUser(ctx, userID)
}

// LogoutSession revokes a single session's refresh token. Scoped to the
// caller so one user cannot revoke another's token.
func (u *AuthUsecase) LogoutSession(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	return u.tokenRepo.DeleteForUser(ctx, userID, refreshToken)
}

// LogoutByRefreshToken revokes a session by refresh token alone, for callers
// whose access token already expired. A token missing from the store counts
// as already revoked.
func (u *AuthUsecase) LogoutByRefreshToken(ctx context.Context, refreshToken string) error {
	if err := u.tokenRepo.Delete(ctx, refreshToken); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// GetMe returns the authenticated user's public profile. A token whose
// subject no longer exists is treated as an invalid credential, not a
// missing resource.
func (u *AuthUsecase) GetMe(ctx context.Context, userID uuid.UUID) (*entities.PublicUser, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}
	return user.Public(), nil
}

func (u *AuthUsecase) issueTokens(ctx context.Context, user *entities.User) (*entities.AuthResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	row := &entities.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     pair.RefreshToken,
		ExpiresAt: now.Add(u.jwtService.RefreshExpiry()),
		CreatedAt: now,
	}
	if err := u.tokenRepo.Create(ctx, row); err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Public(),
	}, nil
}
