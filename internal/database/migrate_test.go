package database

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Deletes must succeed even when other rows still point at the deleted id, so
// the schema must not declare foreign keys. Existence checks happen in the
// service layer and dangling references are filtered out at read time.
func TestInitialMigration_NoForeignKeys(t *testing.T) {
	upper := strings.ToUpper(initialMigrationSQL)

	assert.NotContains(t, upper, "REFERENCES")
	assert.NotContains(t, upper, "FOREIGN KEY")
	assert.NotContains(t, upper, "ON DELETE")
}

func TestInitialMigration_CreatesRequiredTables(t *testing.T) {
	for _, table := range requiredTables {
		assert.Contains(t, initialMigrationSQL, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s", table))
	}
}

func TestInitialMigration_UniqueBackstops(t *testing.T) {
	assert.Contains(t, initialMigrationSQL, "CREATE UNIQUE INDEX IF NOT EXISTS roles_name_lower_idx ON roles (lower(name))")
	assert.Contains(t, initialMigrationSQL, "CREATE UNIQUE INDEX IF NOT EXISTS permissions_resource_lower_idx ON permissions (lower(resource))")
	assert.Contains(t, initialMigrationSQL, "CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_idx ON users (lower(email))")
	assert.Contains(t, initialMigrationSQL, "UNIQUE (role_id, permission_id)")
}
