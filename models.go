package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. PasswordHash and RefreshToken never leave the
// process: responses carry the PublicUser projection instead.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FullName      string     `bun:"full_name,notnull" json:"full_name,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	RefreshToken  string     `bun:"refresh_token" json:"-"`
	LoggedInAt    *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// PublicUser is the sanitized identity view returned by registration and
// login. It excludes the password hash and any token material.
type PublicUser struct {
	ID        string     `json:"id"`
	FullName  string     `json:"full_name,omitempty"`
	Username  string     `json:"username,omitempty"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone_number,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Sanitize returns the public projection of the user
func (u *User) Sanitize() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:        u.ID.String(),
		FullName:  u.FullName,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

// Identity view over the user record

func (u *PublicUser) Identity() Identity {
	return authIdentity{
		id:       u.ID,
		username: u.Username,
		email:    u.Email,
	}
}

// NormalizeEmail lowercases and trims an email so lookups and uniqueness
// checks agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
