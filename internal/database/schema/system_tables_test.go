package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableDefinitions(t *testing.T) {
	t.Run("Contains CREATE TABLE statements", func(t *testing.T) {
		foundCreateTable := false
		for _, statement := range TableDefinitions {
			if strings.Contains(strings.ToUpper(statement), "CREATE TABLE") {
				foundCreateTable = true
				break
			}
		}

		assert.True(t, foundCreateTable, "TableDefinitions should contain at least one CREATE TABLE statement")
	})

	t.Run("All statements are non-empty", func(t *testing.T) {
		for i, statement := range TableDefinitions {
			assert.NotEmpty(t, statement, "Statement at index %d should not be empty", i)
			assert.NotEmpty(t, strings.TrimSpace(statement), "Statement at index %d should not be just whitespace", i)
		}
	})

	t.Run("Contains the webhook subsystem tables", func(t *testing.T) {
		expectedTables := []string{
			"webhooks",
			"webhook_queue_jobs",
			"webhook_deliveries",
		}

		allStatements := strings.Join(TableDefinitions, " ")
		for _, tableName := range expectedTables {
			assert.Contains(t, allStatements, tableName, "TableDefinitions should reference table: %s", tableName)
		}
	})

	t.Run("Each statement creates a different table", func(t *testing.T) {
		tableNames := make(map[string]bool)

		for _, statement := range TableDefinitions {
			upperStatement := strings.ToUpper(statement)
			if strings.Contains(upperStatement, "CREATE TABLE") {
				parts := strings.Split(upperStatement, "CREATE TABLE")
				if len(parts) > 1 {
					tablePart := strings.TrimSpace(parts[1])
					if openParen := strings.Index(tablePart, "("); openParen > 0 {
						tableName := strings.TrimSpace(tablePart[:openParen])
						tableName = strings.TrimPrefix(tableName, "IF NOT EXISTS")
						tableName = strings.TrimSpace(tableName)

						assert.False(t, tableNames[tableName], "Table %s should not be created multiple times", tableName)
						tableNames[tableName] = true
					}
				}
			}
		}

		assert.Greater(t, len(tableNames), 0, "Should have extracted at least one table name")
	})
}

func TestTableNames(t *testing.T) {
	t.Run("Contains expected tables", func(t *testing.T) {
		expectedTables := []string{
			"users",
			"user_sessions",
			"workspaces",
			"user_workspaces",
			"webhooks",
			"webhook_queue_jobs",
			"webhook_deliveries",
			"settings",
		}

		for _, expectedTable := range expectedTables {
			assert.Contains(t, TableNames, expectedTable, "TableNames should contain: %s", expectedTable)
		}
	})

	t.Run("All table names are non-empty", func(t *testing.T) {
		for i, tableName := range TableNames {
			assert.NotEmpty(t, tableName, "Table name at index %d should not be empty", i)
			assert.NotEmpty(t, strings.TrimSpace(tableName), "Table name at index %d should not be just whitespace", i)
		}
	})

	t.Run("No duplicate table names", func(t *testing.T) {
		seen := make(map[string]bool)

		for _, tableName := range TableNames {
			assert.False(t, seen[tableName], "Table name %s should not be duplicated", tableName)
			seen[tableName] = true
		}
	})

	t.Run("Table names follow naming convention", func(t *testing.T) {
		for _, tableName := range TableNames {
			assert.Equal(t, strings.ToLower(tableName), tableName, "Table name %s should be lowercase", tableName)
			assert.NotContains(t, tableName, " ", "Table name %s should not contain spaces", tableName)
			assert.NotContains(t, tableName, "-", "Table name %s should not contain hyphens", tableName)
		}
	})

	t.Run("TableNames and TableDefinitions exist", func(t *testing.T) {
		assert.Greater(t, len(TableNames), 0, "Should have at least one table name")
		assert.Greater(t, len(TableDefinitions), 0, "Should have at least one table definition")
	})
}

func TestSchemaConsistency(t *testing.T) {
	t.Run("TableDefinitions reference most TableNames", func(t *testing.T) {
		allStatements := strings.ToLower(strings.Join(TableDefinitions, " "))

		foundTables := 0
		for _, tableName := range TableNames {
			if strings.Contains(allStatements, strings.ToLower(tableName)) {
				foundTables++
			}
		}

		assert.Greater(t, foundTables, 0,
			"At least one table name should be found in the table definitions")
	})

	t.Run("No obvious SQL injection vulnerabilities", func(t *testing.T) {
		dangerousPatterns := []string{
			"';",
			"/**/",
		}

		for _, statement := range TableDefinitions {
			upperStatement := strings.ToUpper(statement)
			for _, pattern := range dangerousPatterns {
				assert.NotContains(t, upperStatement, pattern,
					"Statement should not contain dangerous pattern: %s", pattern)
			}
		}
	})
}
