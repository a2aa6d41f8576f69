package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email        string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string          `gorm:"type:varchar(255);not null"`
	FirstName    string          `gorm:"type:varchar(100)"`
	LastName     string          `gorm:"type:varchar(100)"`
	Phone        string          `gorm:"type:varchar(50)"`
	Address      string          `gorm:"type:varchar(500)"`
	City         string          `gorm:"type:varchar(100)"`
	PostalCode   string          `gorm:"type:varchar(20)"`
	Country      string          `gorm:"type:varchar(100)"`
	LastLoginAt  *time.Time
	Roles        []UserRoleModel `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
// Roles are taken from the preloaded association.
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Profile: identity.Profile{
			FirstName:  m.FirstName,
			LastName:   m.LastName,
			Phone:      m.Phone,
			Address:    m.Address,
			City:       m.City,
			PostalCode: m.PostalCode,
			Country:    m.Country,
		},
		Roles:       make([]identity.Role, 0, len(m.Roles)),
		LastLoginAt: m.LastLoginAt,
	}
	for _, r := range m.Roles {
		user.Roles = append(user.Roles, identity.Role(r.Role))
	}
	return user
}

// FromDomain populates the persistence model from a domain User entity.
// Roles are written separately by the repository.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Phone = u.Phone
	m.Address = u.Address
	m.City = u.City
	m.PostalCode = u.PostalCode
	m.Country = u.Country
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserRoleModel links a user to one of the fixed roles.
type UserRoleModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"type:varchar(20);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
