// Package priors holds the static affordance knowledge used by the plan compiler and the
// policy: which receptacle classes are openable, which receptacle classes typically hold
// which object classes, and which appliances perform heating, cooling and cleaning.
//
// A Priors value is immutable once built and is passed explicitly to its consumers.
package priors

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTable []byte

// ErrEmptyTable is returned when a table declares no receptacles.
var ErrEmptyTable = errors.New("priors table has no receptacle classes")

// Appliances names the receptacle classes used by the heat, cool and clean templates.
type Appliances struct {
	Heat  string `json:"heat" yaml:"heat"`
	Cool  string `json:"cool" yaml:"cool"`
	Clean string `json:"clean" yaml:"clean"`
}

// Table is the serialised form of the priors.
type Table struct {
	Openable          []string            `json:"openable" yaml:"openable"`
	ReceptacleObjects map[string][]string `json:"receptacle_objects" yaml:"receptacle_objects"`
	Appliances        Appliances          `json:"appliances" yaml:"appliances"`
}

// Priors is the immutable, query-ready form of a Table.
type Priors struct {
	table      Table
	openable   map[string]bool
	containers map[string][]string
}

// New normalises the table and builds the object to container index.
func New(t Table) (*Priors, error) {
	if len(t.ReceptacleObjects) == 0 {
		return nil, ErrEmptyTable
	}

	p := &Priors{
		openable:   make(map[string]bool),
		containers: make(map[string][]string),
	}

	norm := Table{
		ReceptacleObjects: make(map[string][]string, len(t.ReceptacleObjects)),
		Appliances: Appliances{
			Heat:  lower(t.Appliances.Heat),
			Cool:  lower(t.Appliances.Cool),
			Clean: lower(t.Appliances.Clean),
		},
	}

	for _, o := range t.Openable {
		o = lower(o)
		if o == "" || p.openable[o] {
			continue
		}
		p.openable[o] = true
		norm.Openable = append(norm.Openable, o)
	}

	for recep, objs := range t.ReceptacleObjects {
		recep = lower(recep)
		if recep == "" {
			return nil, fmt.Errorf("empty receptacle class in priors table")
		}
		seen := make(map[string]bool, len(objs))
		for _, o := range objs {
			o = lower(o)
			if o == "" || seen[o] {
				continue
			}
			seen[o] = true
			norm.ReceptacleObjects[recep] = append(norm.ReceptacleObjects[recep], o)
			p.containers[o] = append(p.containers[o], recep)
		}
		if _, ok := norm.ReceptacleObjects[recep]; !ok {
			norm.ReceptacleObjects[recep] = []string{}
		}
	}
	for o := range p.containers {
		sort.Strings(p.containers[o])
	}

	p.table = norm
	return p, nil
}

// Default returns the built-in household priors.
func Default() *Priors {
	p, err := Parse(defaultTable, "yaml")
	if err != nil {
		panic(fmt.Sprintf("built-in priors are invalid: %v", err))
	}
	return p
}

// Parse decodes a table in the given format ("yaml" or "json") and builds Priors.
func Parse(data []byte, format string) (*Priors, error) {
	var t Table
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to decode priors json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to decode priors yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported priors format %q", format)
	}
	return New(t)
}

// Load reads a priors table from disk. The format is chosen by file extension.
func Load(path string) (*Priors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read priors file: %w", err)
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	p, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// IsOpenable reports whether receptacles of class must be opened to see inside.
func (p *Priors) IsOpenable(class string) bool {
	return p.openable[class]
}

// ContainersFor returns the receptacle classes known to hold objects of class, sorted.
func (p *Priors) ContainersFor(class string) []string {
	return slices.Clone(p.containers[class])
}

// IsReceptacleClass reports whether class is a known receptacle class.
func (p *Priors) IsReceptacleClass(class string) bool {
	_, ok := p.table.ReceptacleObjects[class]
	return ok
}

// ReceptacleClasses returns every known receptacle class, sorted.
func (p *Priors) ReceptacleClasses() []string {
	out := make([]string, 0, len(p.table.ReceptacleObjects))
	for r := range p.table.ReceptacleObjects {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Appliances returns the heat, cool and clean appliance classes.
func (p *Priors) Appliances() Appliances {
	return p.table.Appliances
}

// Table returns a copy of the normalised table.
func (p *Priors) Table() Table {
	out := Table{
		Openable:          slices.Clone(p.table.Openable),
		ReceptacleObjects: make(map[string][]string, len(p.table.ReceptacleObjects)),
		Appliances:        p.table.Appliances,
	}
	for r, objs := range p.table.ReceptacleObjects {
		out.ReceptacleObjects[r] = slices.Clone(objs)
	}
	return out
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
