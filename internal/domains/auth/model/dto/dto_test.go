package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prestige/infras/jwt"
	"prestige/internal/domains/auth/model/dto"
	"prestige/shared/constant"
	"prestige/shared/validator"
)

func TestRegisterRequest_ToUserModel(t *testing.T) {
	name := "Test Driver"
	req := dto.RegisterRequest{Email: " Driver@Prestige.test", Password: "x", FullName: &name}

	user := req.ToUserModel("hashed")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "driver@prestige.test", user.Email)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, constant.RoleUser, user.Level)
	assert.True(t, user.Active)
	assert.Equal(t, user.ID, user.CreatedBy)
	assert.Equal(t, user.ID, user.ModifiedBy)
}

func TestRegisterRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.RegisterRequest
		wantErr bool
	}{
		{name: "valid", req: dto.RegisterRequest{Email: "a@b.co", Password: "12345678", PasswordConfirm: "12345678"}},
		{name: "confirmation differs", req: dto.RegisterRequest{Email: "a@b.co", Password: "12345678", PasswordConfirm: "87654321"}, wantErr: true},
		{name: "short password", req: dto.RegisterRequest{Email: "a@b.co", Password: "1234", PasswordConfirm: "1234"}, wantErr: true},
		{name: "bad email", req: dto.RegisterRequest{Email: "nope", Password: "12345678", PasswordConfirm: "12345678"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)
			assert.Equal(t, tt.wantErr, err != nil, err)
		})
	}
}

func TestChangePasswordRequest_Validation(t *testing.T) {
	same := dto.ChangePasswordRequest{CurrentPassword: "12345678", NewPassword: "12345678", NewPasswordConfirm: "12345678"}
	assert.Error(t, validator.ValidateStruct(&same))

	ok := dto.ChangePasswordRequest{CurrentPassword: "12345678", NewPassword: "abcdefgh", NewPasswordConfirm: "abcdefgh"}
	assert.NoError(t, validator.ValidateStruct(&ok))
}

func TestTokenResponse_FromTokenPair(t *testing.T) {
	var res dto.LoginResponse
	res.FromTokenPair(&jwt.TokenPair{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 900})

	assert.Equal(t, dto.TokenResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 900}, res.TokenResponse)
}

func TestUpdateProfileRequest(t *testing.T) {
	req := dto.UpdateProfileRequest{}
	assert.True(t, req.IsEmpty())

	email := " New@Prestige.test "
	req.Email = &email
	req.Normalize()

	assert.False(t, req.IsEmpty())
	assert.Equal(t, "new@prestige.test", *req.Email)
}
