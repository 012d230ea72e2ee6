package models

import "time"

// User is a login account. Employee data lives in ApplicationUser.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Login        string    `json:"login" db:"login"`
	FirstName    *string   `json:"firstName,omitempty" db:"first_name"`
	LastName     *string   `json:"lastName,omitempty" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Hidden from JSON responses
	Activated    bool      `json:"activated" db:"activated"`
	LangKey      string    `json:"langKey" db:"lang_key"`
	Authorities  []string  `json:"authorities,omitempty" db:"-"`
	CreatedAt    time.Time `json:"createdDate" db:"created_at"`
	UpdatedAt    time.Time `json:"lastModifiedDate" db:"updated_at"`
}

// Ref projects the user to the reference embedded in ApplicationUser.
func (u User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Login: u.Login}
}

// UserRef is the public view of a login account.
type UserRef struct {
	ID    int64  `json:"id" validate:"required"`
	Login string `json:"login,omitempty"`
}
