package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/smartcampus/copilot/internal/models"
)

// LoadCatalogFile reads an activity catalog from a JSON file. Used to
// seed the in-memory store; the PostgreSQL store seeds from migrations.
func LoadCatalogFile(path string) ([]models.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var catalog []models.Activity
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}
	return catalog, nil
}
