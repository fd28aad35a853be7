package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaIsEmbedded(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	schema, err := fs.ReadFile(FS, "001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(schema), "appointments_staff_no_overlap")
}
