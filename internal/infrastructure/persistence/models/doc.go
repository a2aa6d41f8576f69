// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: shared ID/timestamp/version columns
// - catalog.go: products, categories, suppliers
// - inventory.go: inventory receipts
// - order.go: orders and order items
// - content.go: news, sliders, contacts
// - identity.go: users and user roles
package models
