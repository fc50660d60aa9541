package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hallbooking/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "app", DBPass: "s3cret",
		DBHost: "db", DBPort: "3306", DBName: "hallbooking",
	}
	assert.Equal(t,
		"app:s3cret@tcp(db:3306)/hallbooking?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		DSN(cfg))
}

func TestDSN_NoPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "app",
		DBHost: "localhost", DBPort: "3306", DBName: "hallbooking",
	}
	dsn := DSN(cfg)
	assert.True(t, strings.HasPrefix(dsn, "app@tcp("), dsn)
}

func TestDSN_ReportsMatchedRows(t *testing.T) {
	// Without clientFoundRows the driver counts changed rows, and an
	// update re-submitting identical values would look like a miss.
	dsn := DSN(config.Config{DBUser: "app", DBHost: "h", DBPort: "1", DBName: "d"})
	assert.Contains(t, dsn, "clientFoundRows=true")
}
