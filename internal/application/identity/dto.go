package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/identity"
	"github.com/shop/storefront/internal/domain/shared"
)

// ProfileFields are the editable personal and default shipping fields
type ProfileFields struct {
	FirstName  string `json:"first_name" binding:"max=100"`
	LastName   string `json:"last_name" binding:"max=100"`
	Phone      string `json:"phone" binding:"max=50"`
	Address    string `json:"address" binding:"max=500"`
	City       string `json:"city" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

func (f ProfileFields) profile() identity.Profile {
	return identity.Profile{
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Phone:      f.Phone,
		Address:    f.Address,
		City:       f.City,
		PostalCode: f.PostalCode,
		Country:    f.Country,
	}
}

// RegisterRequest creates a customer account
type RegisterRequest struct {
	ProfileFields
	Email           string `json:"email" binding:"required,email,max=200"`
	Password        string `json:"password" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// LoginRequest carries the sign-in credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token. The handler may fill it from the cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutInput identifies the tokens to revoke
type LogoutInput struct {
	AccessJTI    string
	AccessTTL    time.Duration
	RefreshToken string
}

// TokenResponse is an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	TokenResponse
	User UserResponse `json:"user"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	PostalCode  string     `json:"postal_code"`
	Country     string     `json:"country"`
	Roles       []string   `json:"roles"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		Address:     u.Address,
		City:        u.City,
		PostalCode:  u.PostalCode,
		Country:     u.Country,
		Roles:       identity.RoleNames(u.Roles),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// UserListQuery holds the admin user list parameters
type UserListQuery struct {
	Search string `form:"search"`
	Role   string `form:"role"`
	Page   int    `form:"page"`
}

// UserListView is the admin user list
type UserListView struct {
	Users shared.Paginated[UserResponse] `json:"users"`
	Roles []string                       `json:"roles"`
	Query UserListQuery                  `json:"query"`
}

// UpdateUserRequest edits a user's profile and, optionally, its role set
type UpdateUserRequest struct {
	ProfileFields
	Roles []string `json:"roles"`
}

// SetRolesRequest replaces a user's role set
type SetRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}
