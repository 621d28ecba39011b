package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string
	Email        string // login identity, stored exactly as submitted
	PasswordHash string
	Name         string
	Role         string // "user" or "admin"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate holds the profile fields a user update may change.
type UserUpdate struct {
	Name  string
	Email string
}
