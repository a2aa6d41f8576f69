package persistence

import (
	"errors"
	"strings"

	"github.com/shop/storefront/internal/domain/shared"
	"gorm.io/gorm"
)

// mapNotFound converts gorm.ErrRecordNotFound into the domain sentinel
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// likeEscape is a LIKE escape character that needs no quoting on any supported driver
const likeEscape = "!"

// likePattern builds a lower-cased substring pattern with LIKE wildcards escaped
func likePattern(search string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

// searchAny ORs a case-insensitive substring match over columns.
// LOWER(..) LIKE works the same on postgres, mysql and sqlite.
func searchAny(query *gorm.DB, search string, columns ...string) *gorm.DB {
	if strings.TrimSpace(search) == "" || len(columns) == 0 {
		return query
	}
	pattern := likePattern(search)
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '" + likeEscape + "'"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// paginate applies LIMIT/OFFSET when the filter asks for a page
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// boolFilter reads a boolean filter value
func boolFilter(value interface{}) (bool, bool) {
	b, ok := value.(bool)
	return b, ok
}
