package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/logger"
)

// Catalog is the static table of openable cases plus the global, ordered
// rarity set. It is loaded once at startup and read-only afterwards, so
// lookups need no locking.
type Catalog struct {
	cases    map[string]*domain.Case
	ordered  []domain.Case
	rarities []domain.Rarity
}

// fileFormat is the shape of the JSON catalog config.
type fileFormat struct {
	Rarities []domain.Rarity `json:"rarities"`
	Cases    []domain.Case   `json:"cases"`
}

// Load reads the catalog from a JSON file. An empty path or a missing file
// falls back to the compiled-in default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(defaultRarities(), defaultCases())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Catalog file not found, using built-in catalog", "path", path)
			return New(defaultRarities(), defaultCases())
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return New(ff.Rarities, ff.Cases)
}

// New builds a catalog from explicit rarities and cases, validating both.
func New(rarities []domain.Rarity, cases []domain.Case) (*Catalog, error) {
	if err := validate(rarities, cases); err != nil {
		return nil, err
	}

	c := &Catalog{
		cases:    make(map[string]*domain.Case, len(cases)),
		ordered:  cases,
		rarities: rarities,
	}
	for i := range cases {
		c.cases[cases[i].ID] = &c.ordered[i]
	}
	return c, nil
}

// GetCase returns the case with the given id, or domain.ErrCaseNotFound.
func (c *Catalog) GetCase(id string) (*domain.Case, error) {
	cs, ok := c.cases[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, id)
	}
	return cs, nil
}

// Cases returns all cases in catalog order.
func (c *Catalog) Cases() []domain.Case {
	return c.ordered
}

// Rarities returns the global rarity set, ordered common to rarest.
func (c *Catalog) Rarities() []domain.Rarity {
	return c.rarities
}

func validate(rarities []domain.Rarity, cases []domain.Case) error {
	if len(rarities) == 0 {
		return fmt.Errorf("catalog needs at least one rarity tier")
	}
	for _, r := range rarities {
		if r.Chance <= 0 {
			return fmt.Errorf("rarity %q has non-positive chance %v", r.Name, r.Chance)
		}
	}

	seen := make(map[string]bool, len(cases))
	for _, cs := range cases {
		if cs.ID == "" {
			return fmt.Errorf("case %q has empty id", cs.Name)
		}
		if seen[cs.ID] {
			return fmt.Errorf("duplicate case id %q", cs.ID)
		}
		seen[cs.ID] = true

		if cs.Price <= 0 {
			return fmt.Errorf("case %q has non-positive price %v", cs.ID, cs.Price)
		}
		for _, item := range cs.Items {
			if item.MinValue > item.MaxValue {
				return fmt.Errorf("case %q item %q has inverted value range [%v, %v]", cs.ID, item.Name, item.MinValue, item.MaxValue)
			}
			if item.RarityIndex < 0 || item.RarityIndex >= len(rarities) {
				return fmt.Errorf("case %q item %q references unknown rarity index %d", cs.ID, item.Name, item.RarityIndex)
			}
		}
	}
	return nil
}
