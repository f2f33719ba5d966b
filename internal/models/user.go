package models

import (
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,min=2,max=100"`
	Phone     string    `json:"phone" validate:"required,min=7,max=20"`
	Email     *string   `json:"email,omitempty" validate:"omitempty,email"`
	Address   *string   `json:"address,omitempty" validate:"omitempty,max=300"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type Credentials struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Credential is the stored login secret for a user.
type Credential struct {
	UserID       string
	PasswordHash []byte
	CreatedAt    time.Time
}

type Session struct {
	Token     string    `json:"token"`
	User      *User     `json:"user"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserResponse struct {
	ID      string  `json:"id"`
	Phone   string  `json:"phone"`
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:      u.ID,
		Phone:   u.Phone,
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
	}
}

// Snapshot copies the fields a booking keeps about its customer.
func (u *User) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		UserID: u.ID,
		Name:   u.Name,
		Phone:  u.Phone,
	}
}

func (u *User) Clone() *User {
	c := *u
	if u.Email != nil {
		e := *u.Email
		c.Email = &e
	}
	if u.Address != nil {
		a := *u.Address
		c.Address = &a
	}
	return &c
}
