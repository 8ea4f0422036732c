package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"renovo-backend-go/internal/db/memstore"
)

const sampleCatalog = `
services:
  - id: kitchen-remodel
    name: Kitchen Remodel
    category: kitchen
    price: 25000
    tags: [kitchen, cabinets]
  - name: "  Deck Staining  "
    category: outdoor
    price: 1200
`

func TestParse(t *testing.T) {
	services, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "kitchen-remodel", services[0].ID)
	assert.Equal(t, []string{"kitchen", "cabinets"}, services[0].Tags)
	assert.Equal(t, "Deck Staining", services[1].Name)
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte("services:\n  - price: 10\n"))
	assert.ErrorContains(t, err, "name is required")

	_, err = Parse([]byte("services:\n  - name: A\n    price: -1\n"))
	assert.ErrorContains(t, err, "negative")

	_, err = Parse([]byte("services:\n  - {id: x, name: A}\n  - {id: x, name: B}\n"))
	assert.ErrorContains(t, err, "duplicate id")
}

func TestLoadFileAndSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	services, err := LoadFile(path)
	require.NoError(t, err)

	store := memstore.New()
	n, err := Seed(context.Background(), store.Catalog, services, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := store.Catalog.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
