package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bookmarket/internal/domain/model"
	repo "bookmarket/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 15 * time.Minute

// bcryptコスト
const bcryptCost = 12

// AuthUsecase は会員登録とログイン。
// 本体はストアフロントなので、リフレッシュ等は持たないアクセストークンのみの薄い実装。
type AuthUsecase struct {
	users  repo.UserRepository
	secret []byte
}

func NewAuthUsecase(users repo.UserRepository, secret string) *AuthUsecase {
	return &AuthUsecase{users: users, secret: []byte(secret)}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   int     `json:"expires_in"`
	User        UserDTO `json:"user"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || email == "" || in.Password == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "username, email and password are required")
	}

	// username/email どちらかが既に使われていたら弾く
	if _, err := u.users.FindByUsername(ctx, username); err == nil {
		return UserDTO{}, NewHTTPError(http.StatusConflict, "user already exists")
	} else if err != repo.ErrNotFound {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return UserDTO{}, NewHTTPError(http.StatusConflict, "user already exists")
	} else if err != repo.ErrNotFound {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	created, err := u.users.Create(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Status:       model.UserStatusActive,
		Role:         model.RoleUser,
	})
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(created), nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err == repo.ErrNotFound {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	// パスワードが合っていても、BANや未承認ならログインさせない
	switch user.Status {
	case model.UserStatusBanned:
		return LoginOutput{}, NewHTTPError(http.StatusForbidden, "account is banned")
	case model.UserStatusPending:
		return LoginOutput{}, NewHTTPError(http.StatusForbidden, "account is not activated yet")
	}

	now := time.Now()
	expiresAt := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.secret)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return LoginOutput{
		AccessToken: signed,
		ExpiresIn:   int(accessTokenTTL.Seconds()),
		User:        toUserDTO(user),
	}, nil
}

func toUserDTO(u model.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		Status:   string(u.Status),
	}
}
