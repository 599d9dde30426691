package engine_test

import (
	"testing"

	"github.com/dracory/mole/shared/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want engine.Engine
	}{
		{"mysql", engine.MySQL},
		{"MySQL", engine.MySQL},
		{"MYSQL", engine.MySQL},
		{" postgresql ", engine.PostgreSQL},
		{"PostgreSQL", engine.PostgreSQL},
		{"postgres", engine.PostgreSQL},
		{"sqlite", engine.SQLite},
		{"SQLite3", engine.SQLite},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := engine.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, in := range []string{"", "oracle", "mssql", "mariadb"} {
		_, err := engine.Parse(in)
		assert.ErrorIs(t, err, engine.ErrUnsupported, in)
	}
}

func TestDefaultPort(t *testing.T) {
	assert.Equal(t, 3306, engine.MySQL.DefaultPort())
	assert.Equal(t, 5432, engine.PostgreSQL.DefaultPort())
	assert.Equal(t, 0, engine.SQLite.DefaultPort())
	assert.True(t, engine.SQLite.IsFileBased())
	assert.False(t, engine.MySQL.IsFileBased())
}

func TestRegistry(t *testing.T) {
	t.Run("empty enables all", func(t *testing.T) {
		r := engine.NewRegistry(nil)
		assert.Equal(t, []string{"mysql", "postgresql", "sqlite"}, r.List())
	})

	t.Run("subset", func(t *testing.T) {
		r := engine.NewRegistry([]string{"Postgres", "oracle", ""})
		assert.Equal(t, []string{"postgresql"}, r.List())
		assert.True(t, r.IsEnabled(engine.PostgreSQL))
		assert.False(t, r.IsEnabled(engine.MySQL))
	})

	t.Run("validate", func(t *testing.T) {
		r := engine.NewRegistry([]string{"mysql"})

		e, err := r.Validate("MYSQL")
		require.NoError(t, err)
		assert.Equal(t, engine.MySQL, e)

		_, err = r.Validate("")
		assert.Error(t, err)

		_, err = r.Validate("sqlite")
		assert.ErrorContains(t, err, "not enabled")

		_, err = r.Validate("oracle")
		assert.ErrorIs(t, err, engine.ErrUnsupported)
	})
}
