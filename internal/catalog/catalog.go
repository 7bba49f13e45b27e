// Package catalog holds the descriptive metadata of every algorithm: names,
// categories, complexity, relationships and sample inputs.
//
// The metadata lives in an embedded CUE document. Its schema is enforced by
// CUE at load time; references between entries are checked afterwards.
// A *Catalog is immutable once built.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/jonhuth/dsa/internal/step"
)

//go:embed catalog.cue
var source []byte

// Difficulty is "easy", "medium" or "hard".
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Category groups algorithms.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Complexity is the asymptotic cost of an algorithm.
type Complexity struct {
	Best        string `json:"best"`
	Average     string `json:"average"`
	Worst       string `json:"worst"`
	Space       string `json:"space"`
	Explanation string `json:"explanation,omitempty"`
}

// Sample is a named example input.
type Sample struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Input       json.RawMessage `json:"input"`
}

// Algorithm is one catalog entry.
type Algorithm struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	Visualization step.Kind  `json:"visualization"`
	Tags          []string   `json:"tags"`
	Complexity    Complexity `json:"complexity"`
	Description   string     `json:"description"`
	KeyInsights   []string   `json:"key_insights"`
	Prerequisites []string   `json:"prerequisites"`
	Related       []string   `json:"related"`
	Samples       []Sample   `json:"samples"`
}

// Catalog is the immutable set of categories and algorithms, in
// declaration order.
type Catalog struct {
	categories []Category
	algorithms []Algorithm
	byID       map[string]int
}

// Load builds the catalog from the embedded document.
func Load() (*Catalog, error) {
	return Parse(source, "catalog.cue")
}

// Parse builds a catalog from CUE source. filename is used in error
// positions.
func Parse(src []byte, filename string) (*Catalog, error) {
	v := cuecontext.New().CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &Catalog{byID: make(map[string]int)}

	cats := v.LookupPath(cue.ParsePath("categories"))
	if err := cats.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}
	iter, err := cats.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		cat, err := parseCategory(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		c.categories = append(c.categories, cat)
	}

	algos := v.LookupPath(cue.ParsePath("algorithms"))
	if err := algos.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}
	iter, err = algos.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		a, err := parseAlgorithm(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		c.byID[a.ID] = len(c.algorithms)
		c.algorithms = append(c.algorithms, a)
	}

	if errs := c.validate(); len(errs) > 0 {
		return nil, errs
	}
	return c, nil
}

func parseCategory(id string, v cue.Value) (Category, error) {
	cat := Category{ID: id}
	var err error
	if cat.Name, err = lookupString(v, "name"); err != nil {
		return cat, err
	}
	if cat.Description, err = lookupString(v, "description"); err != nil {
		return cat, err
	}
	return cat, nil
}

func parseAlgorithm(id string, v cue.Value) (Algorithm, error) {
	a := Algorithm{ID: id}

	var (
		difficulty, visualization string
		err                       error
	)
	fields := []struct {
		path string
		dst  *string
	}{
		{"name", &a.Name},
		{"category", &a.Category},
		{"difficulty", &difficulty},
		{"visualization", &visualization},
		{"description", &a.Description},
		{"complexity.best", &a.Complexity.Best},
		{"complexity.average", &a.Complexity.Average},
		{"complexity.worst", &a.Complexity.Worst},
		{"complexity.space", &a.Complexity.Space},
	}
	for _, f := range fields {
		if *f.dst, err = lookupString(v, f.path); err != nil {
			return a, err
		}
	}
	a.Difficulty = Difficulty(difficulty)
	a.Visualization = step.Kind(visualization)
	a.Complexity.Explanation = optionalString(v, "complexity.explanation")

	lists := []struct {
		path string
		dst  *[]string
	}{
		{"tags", &a.Tags},
		{"key_insights", &a.KeyInsights},
		{"prerequisites", &a.Prerequisites},
		{"related", &a.Related},
	}
	for _, l := range lists {
		if *l.dst, err = lookupStrings(v, l.path); err != nil {
			return a, err
		}
	}

	a.Samples, err = parseSamples(v.LookupPath(cue.ParsePath("samples")))
	if err != nil {
		return a, err
	}
	return a, nil
}

func parseSamples(v cue.Value) ([]Sample, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var samples []Sample
	for iter.Next() {
		sv := iter.Value()
		name, err := lookupString(sv, "name")
		if err != nil {
			return nil, err
		}
		input, err := sv.LookupPath(cue.ParsePath("input")).MarshalJSON()
		if err != nil {
			return nil, formatCUEError(err)
		}
		samples = append(samples, Sample{
			Name:        name,
			Description: optionalString(sv, "description"),
			Input:       input,
		})
	}
	return samples, nil
}

func lookupString(v cue.Value, path string) (string, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return "", &CompileError{Field: path, Message: "field is required", Pos: v.Pos()}
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, path string) string {
	s, err := v.LookupPath(cue.ParsePath(path)).String()
	if err != nil {
		return ""
	}
	return s
}

func lookupStrings(v cue.Value, path string) ([]string, error) {
	out := []string{}
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return out, nil
	}
	iter, err := f.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Algorithm returns the entry for id.
func (c *Catalog) Algorithm(id string) (Algorithm, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Algorithm{}, false
	}
	return c.algorithms[i], true
}

// Algorithms returns every entry in declaration order.
func (c *Catalog) Algorithms() []Algorithm {
	return slices.Clone(c.algorithms)
}

// IDs returns every algorithm id, sorted.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.algorithms))
	for _, a := range c.algorithms {
		ids = append(ids, a.ID)
	}
	slices.Sort(ids)
	return ids
}

// Categories returns every category in declaration order.
func (c *Catalog) Categories() []Category {
	return slices.Clone(c.categories)
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (Category, bool) {
	i := slices.IndexFunc(c.categories, func(cat Category) bool { return cat.ID == id })
	if i < 0 {
		return Category{}, false
	}
	return c.categories[i], true
}

// ByCategory returns the algorithms of one category.
func (c *Catalog) ByCategory(category string) []Algorithm {
	return c.filter(func(a Algorithm) bool { return a.Category == category })
}

// ByDifficulty returns the algorithms of one difficulty.
func (c *Catalog) ByDifficulty(d Difficulty) []Algorithm {
	return c.filter(func(a Algorithm) bool { return a.Difficulty == d })
}

// ByTag returns the algorithms carrying tag.
func (c *Catalog) ByTag(tag string) []Algorithm {
	return c.filter(func(a Algorithm) bool { return slices.Contains(a.Tags, tag) })
}

// Search matches query case-insensitively against names, descriptions and
// tags.
func (c *Catalog) Search(query string) []Algorithm {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Algorithms()
	}
	return c.filter(func(a Algorithm) bool {
		if strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.Description), q) {
			return true
		}
		return slices.ContainsFunc(a.Tags, func(t string) bool {
			return strings.Contains(strings.ToLower(t), q)
		})
	})
}

func (c *Catalog) filter(keep func(Algorithm) bool) []Algorithm {
	var out []Algorithm
	for _, a := range c.algorithms {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// CompileError is a CUE schema or syntax error with its source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError reduces a CUE error list to its first error, keeping the
// position when there is one.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: "cue", Message: err.Error()}
	}
	first := errs[0]
	ce := &CompileError{Field: "cue", Message: first.Error()}
	if path := first.Path(); len(path) > 0 {
		ce.Field = strings.Join(path, ".")
	}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
