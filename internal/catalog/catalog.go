// Package catalog reads the YAML listing catalog used to seed the service store.
//
// A catalog file looks like:
//
//	listings:
//	  - id: "424905"
//	    img_src: http://mars.jpl.nasa.gov/msl-raw-images/...
//	    type: buy
//	    price: 8000000
//
// Entries without an id get a generated one.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/marsestate/internal/model"
)

//go:embed default.yml
var defaultCatalog []byte

type file struct {
	Listings []model.Listing `yaml:"listings"`
}

// Default returns the catalog bundled with the binary.
func Default() ([]model.Listing, error) {
	return Parse(defaultCatalog)
}

// Load reads and validates the catalog at path.
func Load(path string) ([]model.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	listings, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return listings, nil
}

// Parse decodes catalog YAML, assigning ids where missing and rejecting
// unknown listing types, negative prices and duplicate ids.
func Parse(data []byte) ([]model.Listing, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	seen := make(map[string]bool, len(f.Listings))
	out := make([]model.Listing, 0, len(f.Listings))
	for i, l := range f.Listings {
		l.ID = strings.TrimSpace(l.ID)
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		l.Type = strings.ToLower(strings.TrimSpace(l.Type))
		if l.Type != model.TypeRent && l.Type != model.TypeBuy {
			return nil, fmt.Errorf("listing %d (%s): unknown type %q", i, l.ID, l.Type)
		}
		if l.Price < 0 {
			return nil, fmt.Errorf("listing %d (%s): negative price", i, l.ID)
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("listing %d: duplicate id %s", i, l.ID)
		}
		seen[l.ID] = true
		out = append(out, l)
	}
	return out, nil
}
