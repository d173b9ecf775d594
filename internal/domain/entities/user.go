package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
)

// Region represents the user's billing region, derived from the currency
// supplied at registration (INR maps to INDIA, anything else to FOREIGN)
type Region string

const (
	RegionIndia   Region = "INDIA"
	RegionForeign Region = "FOREIGN"
)

// RegionFromCurrency derives a region from a currency hint
func RegionFromCurrency(currency string) Region {
	if currency == "INR" {
		return RegionIndia
	}
	return RegionForeign
}

// User represents a user entity
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	Region       Region     `json:"region"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `json:"-"`
}

// RegisterInput represents input for user registration
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8"`
	Currency string `json:"currency"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PublicUser is the projection of a user exposed to API clients
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	Region    Region    `json:"region"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the public projection of the user
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Region:    u.Region,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *PublicUser `json:"user"`
}

// UserProfile is the profile projection with activity counts
type UserProfile struct {
	*PublicUser
	TaskCount    int64 `json:"taskCount"`
	PaymentCount int64 `json:"paymentCount"`
}

// AdminStats aggregates platform-wide numbers for the admin dashboard
type AdminStats struct {
	Users   int64   `json:"users"`
	Tasks   int64   `json:"tasks"`
	Revenue float64 `json:"revenue"`
}
