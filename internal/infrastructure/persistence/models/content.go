package models

import (
	"time"

	"github.com/shop/storefront/internal/domain/content"
)

// NewsModel is the persistence model for a news post.
type NewsModel struct {
	BaseModel
	Title       string    `gorm:"type:varchar(200);not null"`
	Content     string    `gorm:"type:text;not null"`
	ImageURL    string    `gorm:"type:varchar(500)"`
	Author      string    `gorm:"type:varchar(100)"`
	PublishDate time.Time `gorm:"not null;index"`
	IsPublished bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (NewsModel) TableName() string {
	return "news"
}

// ToDomain converts the persistence model to a domain News post.
func (m *NewsModel) ToDomain() *content.News {
	return &content.News{
		BaseEntity:  m.BaseModel.ToDomain(),
		Title:       m.Title,
		Content:     m.Content,
		ImageURL:    m.ImageURL,
		Author:      m.Author,
		PublishDate: m.PublishDate,
		IsPublished: m.IsPublished,
	}
}

// FromDomain populates the persistence model from a domain News post.
func (m *NewsModel) FromDomain(n *content.News) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.Title = n.Title
	m.Content = n.Content
	m.ImageURL = n.ImageURL
	m.Author = n.Author
	m.PublishDate = n.PublishDate
	m.IsPublished = n.IsPublished
}

// SliderModel is the persistence model for a home page slider.
type SliderModel struct {
	BaseModel
	Title        string `gorm:"type:varchar(100);not null"`
	Subtitle     string `gorm:"type:varchar(200)"`
	ImageURL     string `gorm:"type:varchar(500);not null"`
	LinkURL      string `gorm:"type:varchar(500)"`
	DisplayOrder int    `gorm:"not null;default:0;index"`
	IsActive     bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SliderModel) TableName() string {
	return "sliders"
}

// ToDomain converts the persistence model to a domain Slider.
func (m *SliderModel) ToDomain() *content.Slider {
	return &content.Slider{
		BaseEntity:   m.BaseModel.ToDomain(),
		Title:        m.Title,
		Subtitle:     m.Subtitle,
		ImageURL:     m.ImageURL,
		LinkURL:      m.LinkURL,
		DisplayOrder: m.DisplayOrder,
		IsActive:     m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Slider.
func (m *SliderModel) FromDomain(s *content.Slider) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Title = s.Title
	m.Subtitle = s.Subtitle
	m.ImageURL = s.ImageURL
	m.LinkURL = s.LinkURL
	m.DisplayOrder = s.DisplayOrder
	m.IsActive = s.IsActive
}

// ContactModel is the persistence model for a contact message.
type ContactModel struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);not null"`
	Email   string `gorm:"type:varchar(200);not null"`
	Phone   string `gorm:"type:varchar(50)"`
	Subject string `gorm:"type:varchar(200);not null"`
	Message string `gorm:"type:text;not null"`
	IsRead  bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact.
func (m *ContactModel) ToDomain() *content.Contact {
	return &content.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Subject:    m.Subject,
		Message:    m.Message,
		IsRead:     m.IsRead,
	}
}

// FromDomain populates the persistence model from a domain Contact.
func (m *ContactModel) FromDomain(c *content.Contact) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Subject = c.Subject
	m.Message = c.Message
	m.IsRead = c.IsRead
}
