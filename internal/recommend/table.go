// internal/recommend/table.go
package recommend

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed merchants.yaml
var merchantsYAML []byte

// CardRule is a card and its flat cashback rate at one merchant.
type CardRule struct {
	Name string  `yaml:"name"`
	Rate float64 `yaml:"rate"`
}

// Merchant describes how checkouts at one website are scored.
// BestIndex is curated, it is not recomputed from the rates.
type Merchant struct {
	Website       string     `yaml:"website"`
	Category      string     `yaml:"category"`
	DefaultAmount float64    `yaml:"default_amount"`
	BestIndex     int        `yaml:"best_index"`
	Domains       []string   `yaml:"domains"`
	Cards         []CardRule `yaml:"cards"`
}

// Table is the immutable merchant lookup, indexed by normalized domain.
type Table struct {
	merchants []Merchant
	byDomain  map[string]int
}

var errEmptyTable = errors.New("merchant table is empty")

// ParseTable decodes and validates a YAML merchant document.
func ParseTable(data []byte) (*Table, error) {
	var doc struct {
		Merchants []Merchant `yaml:"merchants"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode merchants: %w", err)
	}
	return NewTable(doc.Merchants)
}

// NewTable validates merchants and builds the alias index.
// The first merchant is the fallback for unknown domains.
func NewTable(merchants []Merchant) (*Table, error) {
	if len(merchants) == 0 {
		return nil, errEmptyTable
	}

	t := &Table{
		merchants: make([]Merchant, len(merchants)),
		byDomain:  make(map[string]int),
	}
	for i, m := range merchants {
		if len(m.Cards) == 0 {
			return nil, fmt.Errorf("merchant %q has no cards", m.Website)
		}
		if m.BestIndex < 0 || m.BestIndex >= len(m.Cards) {
			return nil, fmt.Errorf("merchant %q: best_index %d out of range", m.Website, m.BestIndex)
		}
		if len(m.Domains) == 0 {
			return nil, fmt.Errorf("merchant %q has no domains", m.Website)
		}

		m.Cards = append([]CardRule(nil), m.Cards...)
		domains := make([]string, 0, len(m.Domains))
		for _, d := range m.Domains {
			key := normalizeDomain(d)
			if key == "" {
				return nil, fmt.Errorf("merchant %q has a blank domain", m.Website)
			}
			if prev, dup := t.byDomain[key]; dup {
				return nil, fmt.Errorf("domain %q is used by %q and %q", key, merchants[prev].Website, m.Website)
			}
			t.byDomain[key] = i
			domains = append(domains, key)
		}
		m.Domains = domains
		t.merchants[i] = m
	}
	return t, nil
}

// MustDefaultTable returns the embedded merchant table or panics.
func MustDefaultTable() *Table {
	t, err := ParseTable(merchantsYAML)
	if err != nil {
		panic(fmt.Sprintf("recommend: embedded merchants: %v", err))
	}
	return t
}

// Lookup returns the merchant for domain, falling back to the first one.
func (t *Table) Lookup(domain string) Merchant {
	if i, ok := t.byDomain[normalizeDomain(domain)]; ok {
		return t.merchants[i]
	}
	return t.merchants[0]
}

// Merchants returns a copy of the configured merchants in declared order.
func (t *Table) Merchants() []Merchant {
	out := make([]Merchant, len(t.merchants))
	copy(out, t.merchants)
	return out
}

func normalizeDomain(d string) string {
	return strings.ToLower(strings.TrimSpace(d))
}
