package persistence

import (
	"strings"

	"github.com/signly/backend/internal/domain/shared"
	"gorm.io/gorm"
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

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// DocumentSortFields contains allowed sort fields for documents
var DocumentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"filename":   true,
	"status":     true,
}

// PublicationSortFields contains allowed sort fields for publications
var PublicationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"status":     true,
	"expires_at": true,
}

// applyFilterConditions applies the equality filters only, for count queries.
// Filter keys come from application code, never from request input.
func applyFilterConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for field, value := range filter.Filters {
		query = query.Where(field+" = ?", value)
	}
	return query
}

// applyFilter applies conditions, ordering, and pagination to the query.
// The sort field is validated against the common whitelist; repositories with
// richer sortable columns validate before calling.
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	return applyFilterWithSortFields(query, filter, CommonSortFields)
}

// applyFilterWithSortFields is applyFilter with a repository-specific sort
// whitelist
func applyFilterWithSortFields(query *gorm.DB, filter shared.Filter, sortFields map[string]bool) *gorm.DB {
	query = applyFilterConditions(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}
