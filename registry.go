package knex

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownTransform is returned when a registry has no definition for a name.
var ErrUnknownTransform = errors.New("unknown transform")

// Category groups transforms for documentation.
type Category string

// Transform categories, in the order they are documented.
const (
	CategoryGeneral Category = "General"
	CategoryString  Category = "String"
	CategoryNumber  Category = "Number"
	CategoryDate    Category = "Date"
	CategoryOther   Category = "Other"
)

// Categories lists every category in documentation order.
var Categories = []Category{CategoryGeneral, CategoryString, CategoryNumber, CategoryDate, CategoryOther}

// Definition describes a constructible transform kind.
type Definition struct {
	New         func(args map[string]any) (Transform, error)
	Name        Name
	Category    Category
	Description string
}

// Define builds a Definition for the transform type T. The constructor
// decodes an args map into a zero T, so T's mapstructure tags are the
// argument names accepted from declarative pipelines.
//
// Example:
//
//	reg := knex.NewRegistry(
//	    knex.Define[parsers.Split](knex.CategoryString, "Split a string on a delimiter"),
//	)
func Define[T Transform](category Category, description string) Definition {
	var zero T
	return Definition{
		Name:        zero.Name(),
		Category:    category,
		Description: description,
		New: func(args map[string]any) (Transform, error) {
			var t T
			if err := Decode(args, &t); err != nil {
				return nil, err
			}
			return t, nil
		},
	}
}

// Registry maps transform names to their definitions. It is safe for
// concurrent use; registering a name twice replaces the earlier entry.
type Registry struct {
	defs map[Name]Definition
	mu   sync.RWMutex
}

// NewRegistry creates a registry holding defs plus the Start and End
// pass-through transforms.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[Name]Definition, len(defs)+2)}
	r.Register(
		Define[Start](CategoryGeneral, "Seed a chain with its input unchanged"),
		Define[End](CategoryGeneral, "Pass the input through unchanged"),
	)
	r.Register(defs...)
	return r
}

// Register adds definitions to the registry.
func (r *Registry) Register(defs ...Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range defs {
		r.defs[d.Name] = d
	}
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name Name) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	return d, ok
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]Name, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Definitions returns every definition sorted by name.
func (r *Registry) Definitions() []Definition {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, len(names))
	for i, name := range names {
		defs[i] = r.defs[name]
	}
	return defs
}

// Build constructs the named transform from an args map.
func (r *Registry) Build(name Name, args map[string]any) (Transform, error) {
	d, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
	}
	t, err := d.New(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

// Markdown renders the registry as a GitHub table with one column per
// category, names sorted within each column.
func (r *Registry) Markdown() string {
	columns := make(map[Category][]Name, len(Categories))
	rows := 0
	for _, d := range r.Definitions() {
		columns[d.Category] = append(columns[d.Category], d.Name)
		rows = max(rows, len(columns[d.Category]))
	}

	var b strings.Builder
	header := make([]string, len(Categories))
	rule := make([]string, len(Categories))
	for i, c := range Categories {
		header[i] = string(c)
		rule[i] = strings.Repeat("-", max(3, len(c)))
	}
	writeRow(&b, header)
	writeRow(&b, rule)
	for i := 0; i < rows; i++ {
		row := make([]string, len(Categories))
		for j, c := range Categories {
			if i < len(columns[c]) {
				row[j] = columns[c][i]
			}
		}
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
