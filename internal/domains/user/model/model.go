package model

import (
	"prestige/shared/model"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldLevel     = "level"
	FieldFullName  = "full_name"
	FieldPhone     = "phone"
	FieldLastLogin = "last_login"
	FieldActive    = "active"
)

const (
	CacheKeyGet    = "user:get"
	CacheKeyGetAll = "user:gets"
)

type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Level     string     `db:"level"`
	FullName  *string    `db:"full_name"`
	Phone     *string    `db:"phone"`
	LastLogin *time.Time `db:"last_login"`
	Active    bool       `db:"active"`
	model.Metadata
}

// DisplayName is the full name when set, the email otherwise.
func (u User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}

	return u.Email
}

// Orderings maps the public ordering keys to columns.
var Orderings = map[string]string{
	"email":      TableName + "." + FieldEmail,
	"level":      TableName + "." + FieldLevel,
	"created_at": TableName + ".created_at",
}

const DefaultOrdering = "-created_at"
