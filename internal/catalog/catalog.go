// Package catalog holds the seed data every view reads: offset projects,
// their registry details, credit lots, emissions and recent offsets.
package catalog

import (
	_ "embed"
	"fmt"
	"io"

	"carbonpay/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Dataset is the full catalog document.
type Dataset struct {
	Wallet        domain.Wallet           `yaml:"wallet"`
	Projects      []domain.Project        `yaml:"projects"`
	Details       []domain.ProjectDetails `yaml:"details"`
	Credits       []domain.CarbonCredit   `yaml:"credits"`
	Emissions     []domain.Emission       `yaml:"emissions"`
	RecentOffsets []domain.RecentOffset   `yaml:"recentOffsets"`
}

// Default returns the embedded catalog. It panics only if the embedded
// document is broken, which is a build defect.
func Default() Dataset {
	ds, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return ds
}

// Read decodes and validates a catalog document from r.
func Read(r io.Reader) (Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a catalog document.
func Parse(raw []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// Validate enforces the per-entity invariants and that ids are unique.
func (d Dataset) Validate() error {
	projects := make(map[string]struct{}, len(d.Projects))
	for _, p := range d.Projects {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := projects[p.ID]; dup {
			return fmt.Errorf("duplicate project id %s", p.ID)
		}
		projects[p.ID] = struct{}{}
	}
	for _, det := range d.Details {
		if _, ok := projects[det.ID]; !ok {
			return fmt.Errorf("details for unknown project %s", det.ID)
		}
	}
	credits := make(map[string]struct{}, len(d.Credits))
	for _, c := range d.Credits {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := credits[c.ID]; dup {
			return fmt.Errorf("duplicate credit id %s", c.ID)
		}
		credits[c.ID] = struct{}{}
	}
	emissions := make(map[string]struct{}, len(d.Emissions))
	for _, e := range d.Emissions {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, dup := emissions[e.ID]; dup {
			return fmt.Errorf("duplicate emission id %s", e.ID)
		}
		emissions[e.ID] = struct{}{}
	}
	return nil
}
