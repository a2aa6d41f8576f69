package identity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shop/storefront/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = bcrypt.DefaultCost

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetterRegex = regexp.MustCompile(`[a-zA-Z]`)
	hasNumberRegex = regexp.MustCompile(`[0-9]`)
)

// User is a storefront account. Email is the login name.
type User struct {
	shared.BaseAggregateRoot
	Profile
	Email        string
	PasswordHash string
	Roles        []Role
	LastLoginAt  *time.Time
}

// Profile holds the editable personal and default shipping fields
type Profile struct {
	FirstName  string
	LastName   string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// NewUser creates a user with the given roles
func NewUser(email, password string, profile Profile, roles ...Role) (*User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	unique, err := uniqueRoles(roles)
	if err != nil {
		return nil, err
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      passwordHash,
		Profile:           profile,
		Roles:             unique,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// NewCustomer registers a shopper account
func NewCustomer(email, password string, profile Profile) (*User, error) {
	return NewUser(email, password, profile, RoleCustomer)
}

// UpdateProfile replaces the personal fields
func (u *User) UpdateProfile(profile Profile) error {
	if err := validateProfile(profile); err != nil {
		return err
	}
	u.Profile = profile
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ChangePassword changes the user's password
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetRoles replaces the role set. Duplicates are dropped.
func (u *User) SetRoles(roles []Role) error {
	unique, err := uniqueRoles(roles)
	if err != nil {
		return err
	}

	u.Roles = unique
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// HasRole checks if user has a specific role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanManageStore reports whether any role grants admin area access
func (u *User) CanManageStore() bool {
	for _, r := range u.Roles {
		if r.CanManageStore() {
			return true
		}
	}
	return false
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// FullName joins first and last name, falling back to the email
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

func uniqueRoles(roles []Role) ([]Role, error) {
	seen := make(map[Role]bool, len(roles))
	unique := make([]Role, 0, len(roles))
	for _, r := range roles {
		if !r.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(r))
		}
		if !seen[r] {
			seen[r] = true
			unique = append(unique, r)
		}
	}
	return unique, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}
	if !hasLetterRegex.MatchString(password) || !hasNumberRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateProfile(p Profile) error {
	limits := []struct {
		field string
		value string
		max   int
	}{
		{"First name", p.FirstName, 100},
		{"Last name", p.LastName, 100},
		{"Phone", p.Phone, 50},
		{"Address", p.Address, 500},
		{"City", p.City, 100},
		{"Postal code", p.PostalCode, 20},
		{"Country", p.Country, 100},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return shared.NewDomainError("INVALID_PROFILE", l.field+" is too long")
		}
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
