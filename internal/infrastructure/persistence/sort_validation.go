package persistence

import (
	"strings"

	"github.com/shop/storefront/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]string, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if _, ok := allowedFields[trimmed]; ok {
		return trimmed
	}
	return defaultField
}

// orderClause resolves a whitelisted sort key to its SQL expression and direction.
// Absent or unknown keys use fallback, a complete ORDER BY expression.
func orderClause(filter shared.Filter, allowedFields map[string]string, fallback string) string {
	key := ValidateSortField(filter.OrderBy, allowedFields, "")
	if key == "" {
		return fallback
	}
	return allowedFields[key] + " " + ValidateSortOrder(filter.OrderDir)
}

// ProductSortFields maps product sort keys to SQL expressions.
// price sorts by what a customer pays; list_price ignores discounts.
var ProductSortFields = map[string]string{
	"name":       "products.name",
	"price":      "COALESCE(products.discount_price, products.price)",
	"list_price": "products.price",
	"created_at": "products.created_at",
	"stock":      "products.stock",
}

// OrderSortFields maps order sort keys to SQL expressions
var OrderSortFields = map[string]string{
	"order_date":   "orders.order_date",
	"total_amount": "orders.total_amount",
	"status":       "orders.order_status",
}

// UserSortFields maps user sort keys to SQL expressions
var UserSortFields = map[string]string{
	"email":      "users.email",
	"created_at": "users.created_at",
	"last_name":  "users.last_name",
}
