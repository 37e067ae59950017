package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/confpipe/internal/schema"
)

// mustParse builds a schema from YAML so tests read like schema files.
func mustParse(t *testing.T, src string) schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(src), schema.FormatYAML)
	require.NoError(t, err)
	return s
}

func field(t *testing.T, s schema.Schema, key string) schema.Field {
	t.Helper()
	f, ok := s.Get(key)
	require.True(t, ok, "key %s missing", key)
	return f
}
