package postgres

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/Togather-Foundation/citymap/internal/domain/events"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var listColumns = []string{
	"id",
	"title",
	"category",
	"event_date",
	"event_time",
	"location",
	"price",
	"image_url",
	"description",
	"lat::float8",
	"lng::float8",
}

// Upcoming keeps events dated today or later, judged by the database clock.
func Upcoming() sq.Sqlizer {
	return sq.Expr("event_date >= CURRENT_DATE")
}

func CategoryEquals(category string) sq.Sqlizer {
	return sq.Eq{"category": category}
}

// TitleOrLocationContains matches term as a literal, case-insensitive
// substring of title or location.
func TitleOrLocationContains(term string) sq.Sqlizer {
	pattern := "%" + escapeILIKEPattern(term) + "%"
	return sq.Or{
		sq.ILike{"title": pattern},
		sq.ILike{"location": pattern},
	}
}

// Predicates returns the WHERE clauses for filters. Order is fixed:
// date, then category, then search, so bound parameters follow the same order.
func Predicates(filters events.Filters) []sq.Sqlizer {
	predicates := []sq.Sqlizer{Upcoming()}
	if filters.Category != "" {
		predicates = append(predicates, CategoryEquals(filters.Category))
	}
	if filters.Search != "" {
		predicates = append(predicates, TitleOrLocationContains(filters.Search))
	}
	return predicates
}

// BuildListQuery renders the upcoming-events SELECT with $n placeholders.
func BuildListQuery(filters events.Filters) (string, []any, error) {
	query := psql.Select(listColumns...).From("events")
	for _, predicate := range Predicates(filters) {
		query = query.Where(predicate)
	}
	return query.OrderBy("event_date ASC", "event_time ASC").ToSql()
}

var ilikeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeILIKEPattern escapes LIKE metacharacters using the default
// backslash escape character.
func escapeILIKEPattern(value string) string {
	return ilikeEscaper.Replace(value)
}
