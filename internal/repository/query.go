package repository

import (
	"strings"

	"gorm.io/gorm"
)

type groupCount struct {
	Label string
	Total int64
}

// countBy groups the scoped query by column and counts each value.
func countBy(query *gorm.DB, column string) (map[string]int64, error) {
	var rows []groupCount
	err := query.Select(column + " AS label, COUNT(*) AS total").Group(column).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Label] = row.Total
	}
	return counts, nil
}

// page limits a query to one page. A non-positive limit disables paging.
func page(number, limit int) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return q
		}
		if number < 1 {
			number = 1
		}
		return q.Offset((number - 1) * limit).Limit(limit)
	}
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
