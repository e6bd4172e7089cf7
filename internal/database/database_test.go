package database

import (
	"net/url"
	"testing"

	"oohunt/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "oohunt",
		Password: "p@ss word",
		Database: "content",
		Schema:   "public",
		SSLMode:  "disable",
	})

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("DSN is not a valid URL: %v", err)
	}
	if u.Scheme != "postgres" || u.Host != "db:5432" || u.Path != "/content" {
		t.Errorf("unexpected DSN %s", dsn)
	}
	if pwd, _ := u.User.Password(); pwd != "p@ss word" {
		t.Errorf("password not preserved, got %q", pwd)
	}
	if u.Query().Get("sslmode") != "disable" || u.Query().Get("search_path") != "public" {
		t.Errorf("unexpected query %s", u.RawQuery)
	}
}
