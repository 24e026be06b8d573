package domain

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed pairs.yaml
var pairsYAML []byte

type CatalogEntry struct {
	Pair Pair   `yaml:"pair"`
	Name string `yaml:"name"`
}

// Catalog is the ordered list of pairs the application offers.
type Catalog struct {
	entries []CatalogEntry
	byPair  map[Pair]string
}

// DefaultPair is preselected for new viewer sessions.
const DefaultPair Pair = "USD-BRL"

var defaultCatalog = mustLoadCatalog(pairsYAML)

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog { return defaultCatalog }

func mustLoadCatalog(b []byte) *Catalog {
	c, err := LoadCatalog(b)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog parses a YAML document of the form `pairs: [{pair, name}]`.
func LoadCatalog(b []byte) (*Catalog, error) {
	var doc struct {
		Pairs []CatalogEntry `yaml:"pairs"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	c := &Catalog{byPair: make(map[Pair]string, len(doc.Pairs))}
	for _, e := range doc.Pairs {
		if !ValidatePair(string(e.Pair)) {
			return nil, fmt.Errorf("catalog: invalid pair %q", e.Pair)
		}
		if _, dup := c.byPair[e.Pair]; dup {
			return nil, fmt.Errorf("catalog: duplicate pair %q", e.Pair)
		}
		c.byPair[e.Pair] = e.Name
		c.entries = append(c.entries, e)
	}
	return c, nil
}

func (c *Catalog) Name(p Pair) (string, bool) {
	n, ok := c.byPair[p]
	return n, ok
}

func (c *Catalog) Supports(p Pair) bool {
	_, ok := c.byPair[p]
	return ok
}

// Resolve parses s and checks it against the catalog.
func (c *Catalog) Resolve(s string) (Pair, error) {
	p, err := ParsePair(s)
	if err != nil {
		return "", err
	}
	if !c.Supports(p) {
		return "", ErrUnsupportedPair
	}
	return p, nil
}

func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Map returns pair code to display name.
func (c *Catalog) Map() map[string]string {
	out := make(map[string]string, len(c.entries))
	for _, e := range c.entries {
		out[string(e.Pair)] = e.Name
	}
	return out
}
