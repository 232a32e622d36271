package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase struct {
	userRepo  repo.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthUsecase(userRepo repo.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthUsecase {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthUsecase{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UserOutput struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserOutput, error) {
	if strings.TrimSpace(in.Name) == "" {
		return UserOutput{}, NewError(KindInvalidInput, "name is required")
	}
	if !strings.Contains(in.Email, "@") {
		return UserOutput{}, NewError(KindInvalidInput, "invalid email")
	}
	if len(in.Password) < 8 {
		return UserOutput{}, NewError(KindInvalidInput, "password must be at least 8 characters")
	}

	if _, err := u.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return UserOutput{}, NewError(KindConflict, "email already registered")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return UserOutput{}, internalError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserOutput{}, internalError()
	}

	user := model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := u.userRepo.Create(ctx, &user); err != nil {
		return UserOutput{}, internalError()
	}

	return toUserOutput(user), nil
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	Token string     `json:"token"`
	User  UserOutput `json:"user"`
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	user, err := u.userRepo.FindByEmail(ctx, in.Email)
	if errors.Is(err, repo.ErrNotFound) {
		// 存在有無は区別して返さない
		return LoginOutput{}, NewError(KindUnauthorized, "invalid email or password")
	}
	if err != nil {
		return LoginOutput{}, internalError()
	}

	if !user.IsActive {
		return LoginOutput{}, NewError(KindForbidden, "account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, NewError(KindUnauthorized, "invalid email or password")
	}

	token, err := u.issueToken(user)
	if err != nil {
		return LoginOutput{}, internalError()
	}

	// 最終ログインの更新失敗はログイン自体を落とさない
	_ = u.userRepo.UpdateLastLogin(ctx, user.ID, time.Now())

	return LoginOutput{Token: token, User: toUserOutput(user)}, nil
}

func (u *AuthUsecase) GetUser(ctx context.Context, userID int64) (UserOutput, error) {
	if userID <= 0 {
		return UserOutput{}, NewError(KindUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserOutput{}, NewError(KindNotFound, "user not found")
	}
	if err != nil {
		return UserOutput{}, internalError()
	}
	return toUserOutput(user), nil
}

type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (u *AuthUsecase) issueToken(user model.User) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.jwtSecret)
}

func toUserOutput(user model.User) UserOutput {
	return UserOutput{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}
}
