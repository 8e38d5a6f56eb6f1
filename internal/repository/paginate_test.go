package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOptionsNormalized(t *testing.T) {
	cases := []struct {
		name      string
		in        PageOptions
		wantPage  int
		wantLimit int
	}{
		{"zero values", PageOptions{}, 1, 10},
		{"negative page", PageOptions{Page: -3, Limit: 20}, 1, 20},
		{"limit capped", PageOptions{Page: 2, Limit: 500}, 2, 100},
		{"in range untouched", PageOptions{Page: 4, Limit: 25}, 4, 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.normalized()
			assert.Equal(t, tc.wantPage, got.Page)
			assert.Equal(t, tc.wantLimit, got.Limit)
		})
	}
}

func TestOrderClause(t *testing.T) {
	sortable := map[string]string{
		"name":       "name",
		"created_at": "created_at",
	}

	assert.Equal(t, "name ASC", orderClause("name", sortable, "created_at DESC"))
	assert.Equal(t, "name ASC", orderClause("name:asc", sortable, "created_at DESC"))
	assert.Equal(t, "name DESC", orderClause("name:desc", sortable, "created_at DESC"))
	assert.Equal(t, "created_at DESC", orderClause("created_at:DESC", sortable, "name ASC"))

	// Unknown fields and injection attempts fall back to the default.
	assert.Equal(t, "created_at DESC", orderClause("", sortable, "created_at DESC"))
	assert.Equal(t, "created_at DESC", orderClause("password_hash:desc", sortable, "created_at DESC"))
	assert.Equal(t, "created_at DESC", orderClause("name; DROP TABLE users", sortable, "created_at DESC"))
}
