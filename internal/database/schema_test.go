package database

import (
	"io/fs"
	"strings"
	"testing"

	"oohunt/migrations"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := fs.ReadFile(migrations.FS, name)
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	expectedMigrations := []string{
		"00001_create_content_categories_table.sql",
		"00002_create_content_tags_table.sql",
		"00003_create_content_pages_table.sql",
		"00004_create_products_table.sql",
		"00005_create_users_table.sql",
		"00006_create_user_favorites_table.sql",
		"00007_create_subscriptions_table.sql",
		"00008_create_contact_messages_table.sql",
	}

	for _, migration := range expectedMigrations {
		if _, err := fs.Stat(migrations.FS, migration); err != nil {
			t.Errorf("Migration file %s is not embedded: %v", migration, err)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		t.Fatalf("Failed to read embedded migrations: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content := readMigration(t, file.Name())

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(content, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	expectedTables := map[string]string{
		"content_categories": "00001_create_content_categories_table.sql",
		"content_tags":       "00002_create_content_tags_table.sql",
		"content_pages":      "00003_create_content_pages_table.sql",
		"products":           "00004_create_products_table.sql",
		"users":              "00005_create_users_table.sql",
		"user_favorites":     "00006_create_user_favorites_table.sql",
		"subscriptions":      "00007_create_subscriptions_table.sql",
		"contact_messages":   "00008_create_contact_messages_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		content := readMigration(t, migrationFile)

		if !strings.Contains(content, "CREATE TABLE IF NOT EXISTS "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}
		if !strings.Contains(content, "DROP TABLE IF EXISTS "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestContentPagesTableHasRequiredColumns(t *testing.T) {
	content := readMigration(t, "00003_create_content_pages_table.sql")

	requiredColumns := []string{
		"id UUID PRIMARY KEY",
		"slug VARCHAR(255) NOT NULL UNIQUE",
		"content TEXT NOT NULL",
		"categories TEXT[]",
		"tags TEXT[]",
		"product_ids TEXT[]",
		"seo_data JSONB",
		"published_at TIMESTAMPTZ",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(content, column) {
			t.Errorf("content_pages missing required column definition: %s", column)
		}
	}

	for _, status := range []string{"draft", "published", "archived"} {
		if !strings.Contains(content, "'"+status+"'") {
			t.Errorf("content_pages status constraint missing value: %s", status)
		}
	}
}

func TestUserFavoritesTableHasCompositeKey(t *testing.T) {
	content := readMigration(t, "00006_create_user_favorites_table.sql")

	if !strings.Contains(content, "PRIMARY KEY (user_id, product_id)") {
		t.Error("user_favorites missing composite primary key on (user_id, product_id)")
	}
}

func TestTaxonomyTablesHaveUniqueSlugs(t *testing.T) {
	for _, file := range []string{
		"00001_create_content_categories_table.sql",
		"00002_create_content_tags_table.sql",
	} {
		if !strings.Contains(readMigration(t, file), "slug VARCHAR(255) NOT NULL UNIQUE") {
			t.Errorf("%s missing unique slug", file)
		}
	}
}
