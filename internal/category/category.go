// Package category holds the built-in extension classification table.
package category

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Others is the catch-all category for extensions no table entry claims.
const Others = "others"

//go:embed categories.yml
var builtinYAML []byte

// Category is one named bucket of extensions (without the leading dot).
type Category struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
}

// Table is an ordered, read-only category table.
type Table struct {
	categories []Category
	exact      map[string]string // extension -> category, first match wins
	folded     map[string]string // lowercased extension -> category
}

var builtin *Table

func init() {
	t, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("category: invalid built-in table: %v", err))
	}
	builtin = t
}

// Builtin returns the table compiled into the binary.
func Builtin() *Table {
	return builtin
}

// Parse decodes a YAML sequence of categories into a Table.
func Parse(data []byte) (*Table, error) {
	var cats []Category
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("error parsing category table: %w", err)
	}
	for i, c := range cats {
		if c.Name == "" {
			return nil, fmt.Errorf("category %d has no name", i)
		}
		if c.Name == Others {
			return nil, fmt.Errorf("category name %q is reserved", Others)
		}
	}
	return New(cats...), nil
}

// New builds a table from categories in priority order.
func New(cats ...Category) *Table {
	t := &Table{
		categories: make([]Category, len(cats)),
		exact:      make(map[string]string),
		folded:     make(map[string]string),
	}
	for i, c := range cats {
		exts := make([]string, 0, len(c.Extensions))
		for _, ext := range c.Extensions {
			ext = strings.TrimPrefix(ext, ".")
			if ext == "" {
				continue
			}
			exts = append(exts, ext)
			// Avoid overwriting: an earlier category keeps the extension.
			if _, ok := t.exact[ext]; !ok {
				t.exact[ext] = c.Name
			}
			lower := strings.ToLower(ext)
			if _, ok := t.folded[lower]; !ok {
				t.folded[lower] = c.Name
			}
		}
		t.categories[i] = Category{Name: c.Name, Extensions: exts}
	}
	return t
}

// Categories returns a copy of the table in priority order.
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, Extensions: append([]string(nil), c.Extensions...)}
	}
	return out
}

// Lookup returns the category for ext, or Others when nothing matches.
// With ignoreCase the comparison is case-insensitive.
func (t *Table) Lookup(ext string, ignoreCase bool) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return Others
	}
	if ignoreCase {
		if name, ok := t.folded[strings.ToLower(ext)]; ok {
			return name
		}
		return Others
	}
	if name, ok := t.exact[ext]; ok {
		return name
	}
	return Others
}

// Classify returns the category of the file name.
func (t *Table) Classify(name string, ignoreCase bool) string {
	return t.Lookup(Extension(name), ignoreCase)
}

// Extension returns the text after the last dot of the base name. Leading dots do
// not start an extension, so ".bashrc" has none.
func Extension(name string) string {
	base := strings.TrimLeft(filepath.Base(name), ".")
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return base[i+1:]
}
