package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `services:
  - id: tile
    name: Bathroom tile
    category: bathroom
    price: 4000
  - id: deck
    name: Cedar deck
    category: outdoor
    price: 9000
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeed_DryRun(t *testing.T) {
	out, err := execute(t, "seed", "--dry-run", writeCatalog(t))
	require.NoError(t, err)
	assert.Contains(t, out, "tile\tBathroom tile\t4000.00")
	assert.Contains(t, out, "deck\tCedar deck")
}

func TestSeed_MemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	out, err := execute(t, "seed", writeCatalog(t))
	require.NoError(t, err)
	assert.Equal(t, "seeded 2 services\n", out)
}

func TestSearch_File(t *testing.T) {
	out, err := execute(t, "search", "--file", writeCatalog(t), "deck")
	require.NoError(t, err)
	assert.Equal(t, "deck\tCedar deck\t9000.00\n", out)

	out, err = execute(t, "search", "--file", writeCatalog(t), "roofing")
	require.NoError(t, err)
	assert.Equal(t, "no matches\n", out)
}

func TestGrantAdmin_MemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	out, err := execute(t, "grant-admin", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1: role=admin admin=true\n", out)
}

func TestArgsRequired(t *testing.T) {
	_, err := execute(t, "seed")
	assert.Error(t, err)
}
