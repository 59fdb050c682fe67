package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinytelemetry/marsestate/internal/model"
)

func TestDefault_IsValid(t *testing.T) {
	listings, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(listings) == 0 {
		t.Fatal("default catalog is empty")
	}
	var rent, buy int
	for _, l := range listings {
		if l.IsRental() {
			rent++
		} else {
			buy++
		}
	}
	if rent == 0 || buy == 0 {
		t.Errorf("default catalog should mix types, got rent=%d buy=%d", rent, buy)
	}
}

func TestParse_AssignsMissingIDsAndNormalizesType(t *testing.T) {
	data := []byte(`
listings:
  - img_src: http://example.com/a.jpg
    type: " Rent "
    price: 100
  - id: "7"
    type: buy
    price: 200
`)
	listings, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("len = %d, want 2", len(listings))
	}
	if listings[0].ID == "" || len(listings[0].ID) != 36 {
		t.Errorf("generated id = %q, want uuid", listings[0].ID)
	}
	if listings[0].Type != model.TypeRent {
		t.Errorf("type = %q, want rent", listings[0].Type)
	}
	if listings[1].ID != "7" || listings[1].Price != 200 {
		t.Errorf("second = %+v", listings[1])
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown type": "listings:\n  - id: a\n    type: lease\n    price: 1\n",
		"negative":     "listings:\n  - id: a\n    type: buy\n    price: -1\n",
		"duplicate":    "listings:\n  - id: a\n    type: buy\n    price: 1\n  - id: a\n    type: rent\n    price: 2\n",
		"bad yaml":     "listings: [",
	}
	for name, data := range tests {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoad_WrapsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	if err := os.WriteFile(path, []byte("listings:\n  - id: x\n    type: rent\n    price: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	listings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(listings) != 1 || listings[0].ID != "x" {
		t.Errorf("Load = %+v", listings)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil || !strings.Contains(err.Error(), "missing.yml") {
		t.Errorf("Load(missing) error = %v", err)
	}
}
