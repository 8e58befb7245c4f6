package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithMigrationsTable(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "bare url",
			url:      "postgres://localhost:5432/primtakip",
			expected: "postgres://localhost:5432/primtakip?x-migrations-table=primtakip_schema_migrations",
		},
		{
			name:     "url with existing query",
			url:      "postgres://localhost:5432/primtakip?sslmode=disable",
			expected: "postgres://localhost:5432/primtakip?sslmode=disable&x-migrations-table=primtakip_schema_migrations",
		},
		{
			name:     "caller already chose a table",
			url:      "postgres://localhost:5432/primtakip?x-migrations-table=custom",
			expected: "postgres://localhost:5432/primtakip?x-migrations-table=custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, withMigrationsTable(tt.url))
		})
	}
}
