package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"sync-workbench/internal/model"
)

// PageOptions controls paginated list queries. SortBy is "field:asc" or
// "field:desc"; fields are matched against the caller's whitelist.
type PageOptions struct {
	Page   int
	Limit  int
	SortBy string
}

func (o PageOptions) normalized() PageOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 10
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	return o
}

// orderClause resolves SortBy against a whitelist of sortable columns.
// Unknown fields fall back to the default so callers can never inject SQL.
func orderClause(sortBy string, sortable map[string]string, fallback string) string {
	field, direction, _ := strings.Cut(strings.TrimSpace(sortBy), ":")
	column, ok := sortable[field]
	if !ok {
		return fallback
	}

	if strings.EqualFold(direction, "desc") {
		return column + " DESC"
	}
	return column + " ASC"
}

// paginate runs a count plus a LIMIT/OFFSET page query and assembles the
// uniform page result used by every list endpoint.
func paginate[T any](
	ctx context.Context,
	db Querier,
	countQuery string,
	pageQuery string,
	args []any,
	opts PageOptions,
	scan func(pgx.Rows) (T, error),
) (model.Page[T], error) {
	opts = opts.normalized()

	var total int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return model.Page[T]{}, fmt.Errorf("count rows: %w", err)
	}

	offset := (opts.Page - 1) * opts.Limit
	pageArgs := append(append([]any{}, args...), opts.Limit, offset)

	rows, err := db.Query(ctx, pageQuery, pageArgs...)
	if err != nil {
		return model.Page[T]{}, fmt.Errorf("query page: %w", err)
	}
	defer rows.Close()

	results := make([]T, 0, opts.Limit)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return model.Page[T]{}, fmt.Errorf("scan row: %w", err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return model.Page[T]{}, err
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages < 1 {
		totalPages = 1
	}

	return model.Page[T]{
		Results:      results,
		Page:         opts.Page,
		Limit:        opts.Limit,
		TotalPages:   totalPages,
		TotalResults: total,
	}, nil
}
