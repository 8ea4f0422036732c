// Package catalog loads service offerings from YAML files and seeds them into
// the catalog repository.
package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/models"
)

// File is the on-disk catalog layout.
type File struct {
	Services []models.ServiceOffering `yaml:"services"`
}

// LoadFile reads and validates a catalog YAML file.
func LoadFile(path string) ([]models.ServiceOffering, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML. Every service needs a name and a non-negative price;
// IDs, when given, must be unique.
func Parse(data []byte) ([]models.ServiceOffering, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshalling catalog: %w", err)
	}

	seen := make(map[string]bool, len(file.Services))
	for i := range file.Services {
		s := &file.Services[i]
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, fmt.Errorf("catalog service #%d: name is required", i+1)
		}
		if s.Price < 0 {
			return nil, fmt.Errorf("catalog service %q: price must not be negative", s.Name)
		}
		if s.ID != "" {
			if seen[s.ID] {
				return nil, fmt.Errorf("catalog service %q: duplicate id %q", s.Name, s.ID)
			}
			seen[s.ID] = true
		}
	}
	return file.Services, nil
}

// Seed upserts every offering and returns how many were written.
func Seed(ctx context.Context, repo db.CatalogRepository, offerings []models.ServiceOffering, logger *zap.Logger) (int, error) {
	for i := range offerings {
		if err := repo.Upsert(ctx, &offerings[i]); err != nil {
			return i, fmt.Errorf("seeding %q: %w", offerings[i].Name, err)
		}
		logger.Debug("Seeded catalog service", zap.String("id", offerings[i].ID), zap.String("name", offerings[i].Name))
	}
	return len(offerings), nil
}
