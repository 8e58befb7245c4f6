package persistence

import (
	"strings"
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
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"contract_number":     true,
	"customer_name":       true,
	"sale_date":           true,
	"list_price":          true,
	"activity_sale_price": true,
	"commission":          true,
	"status":              true,
}

// PeriodSortFields contains allowed sort fields for commission periods
var PeriodSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"year":             true,
	"month":            true,
	"status":           true,
	"sales_start_date": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"full_name":     true,
	"status":        true,
	"last_login_at": true,
}
