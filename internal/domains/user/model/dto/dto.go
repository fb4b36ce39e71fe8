package dto

import (
	"prestige/internal/domains/user/model"
	"prestige/shared"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	gModel "prestige/shared/model"
	"prestige/shared/timezone"
	"strings"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email    string  `json:"email"               validate:"required,email,max=254"`
	Password string  `json:"password"            validate:"required,min=8,max=72"`
	Level    string  `json:"level"               validate:"omitempty,oneof=superadmin admin user"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=150"`
	Phone    *string `json:"phone,omitempty"     validate:"omitempty,max=20"`
}

func (r *CreateUserRequest) ToModel(createdBy string, hashedPassword string) model.User {
	level := r.Level
	if level == constant.Empty {
		level = constant.RoleUser
	}

	return NewUser(r.Email, hashedPassword, level, r.FullName, r.Phone, createdBy)
}

// NewUser builds an active account with a normalized email.
func NewUser(email, hashedPassword, level string, fullName, phone *string, createdBy string) model.User {
	id := uuid.NewString()
	if createdBy == constant.Empty {
		createdBy = id
	}

	return model.User{
		ID:       id,
		Email:    NormalizeEmail(email),
		Password: hashedPassword,
		Level:    level,
		FullName: fullName,
		Phone:    phone,
		Active:   true,
		Metadata: gModel.NewMetadata(createdBy),
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Level     string  `json:"level"`
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	LastLogin *string `json:"last_login,omitempty"`
	Active    bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.Active = model.Active
	r.LastLogin = nil

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(model.Metadata)
}

type UpdateUserRequest struct {
	Email    *string `db:"email"     json:"email,omitempty"     validate:"omitempty,email,max=254"`
	Level    *string `db:"level"     json:"level,omitempty"     validate:"omitempty,oneof=superadmin admin user"`
	FullName *string `db:"full_name" json:"full_name,omitempty" validate:"omitempty,max=150"`
	Phone    *string `db:"phone"     json:"phone,omitempty"     validate:"omitempty,max=20"`
	Active   *bool   `db:"active"    json:"active,omitempty"`
}

func (u *UpdateUserRequest) IsEmpty() bool {
	return u.Email == nil && u.Level == nil && u.FullName == nil && u.Phone == nil && u.Active == nil
}

// Normalize lowercases the email in place.
func (u *UpdateUserRequest) Normalize() {
	if u.Email != nil {
		email := NormalizeEmail(*u.Email)
		u.Email = &email
	}
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
