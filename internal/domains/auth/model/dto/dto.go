package dto

import (
	"prestige/infras/jwt"
	userModel "prestige/internal/domains/user/model"
	userDto "prestige/internal/domains/user/model/dto"
	"prestige/shared/constant"
	"time"
)

type RegisterRequest struct {
	Email           string  `json:"email"               validate:"required,email,max=254"`
	Password        string  `json:"password"            validate:"required,min=8,max=72"`
	PasswordConfirm string  `json:"password_confirm"    validate:"required,eqfield=Password"`
	FullName        *string `json:"full_name,omitempty" validate:"omitempty,max=150"`
	Phone           *string `json:"phone,omitempty"     validate:"omitempty,max=20"`
}

// ToUserModel creates a regular customer account; the account is its own creator.
func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	return userDto.NewUser(r.Email, hashedPassword, constant.RoleUser, r.FullName, r.Phone, constant.Empty)
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *TokenResponse) FromTokenPair(pair *jwt.TokenPair) {
	t.AccessToken = pair.AccessToken
	t.RefreshToken = pair.RefreshToken
	t.TokenType = pair.TokenType
	t.ExpiresIn = pair.ExpiresIn
}

// ProfileResponse is the account as its owner sees it.
type ProfileResponse = userDto.UserResponse

// LoginResponse is returned by both register and login.
type LoginResponse struct {
	User userDto.UserResponse `json:"user"`
	TokenResponse
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
}

type UpdateProfileRequest struct {
	Email    *string `db:"email"     json:"email,omitempty"     validate:"omitempty,email,max=254"`
	FullName *string `db:"full_name" json:"full_name,omitempty" validate:"omitempty,max=150"`
	Phone    *string `db:"phone"     json:"phone,omitempty"     validate:"omitempty,max=20"`
}

func (u *UpdateProfileRequest) IsEmpty() bool {
	return u.Email == nil && u.FullName == nil && u.Phone == nil
}

func (u *UpdateProfileRequest) Normalize() {
	if u.Email != nil {
		email := userDto.NormalizeEmail(*u.Email)
		u.Email = &email
	}
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password"     validate:"required"`
	NewPassword        string `json:"new_password"         validate:"required,min=8,max=72,nefield=CurrentPassword"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password"`
}
