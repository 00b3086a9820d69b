package domain

import "time"

type UserID string

type User struct {
	ID              UserID
	Username        string
	Email           string
	Password        string
	DisplayName     string
	Avatar          string
	Bio             string
	IsEmailVerified bool
	IsDeactivated   bool
	DeactivatedAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
