package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Validation error codes.
const (
	ErrUnknownCategory     = "E201" // algorithm names a category that does not exist
	ErrUnknownPrerequisite = "E202" // prerequisite id does not exist
	ErrUnknownRelated      = "E203" // related id does not exist
	ErrSelfReference       = "E204" // algorithm lists itself
	ErrPrerequisiteCycle   = "E205" // prerequisites form a cycle
	ErrDuplicateEntry      = "E206" // repeated tag or reference
)

// ValidationError is one cross-reference problem found after the schema
// check.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors collects every cross-reference problem; it is returned
// as a single error.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// validate checks references between entries. It reports every problem, not
// just the first.
func (c *Catalog) validate() ValidationErrors {
	var errs ValidationErrors

	for _, a := range c.algorithms {
		base := "algorithms." + a.ID

		if _, ok := c.Category(a.Category); !ok {
			errs = append(errs, ValidationError{
				Field:   base + ".category",
				Message: fmt.Sprintf("unknown category %q", a.Category),
				Code:    ErrUnknownCategory,
			})
		}

		errs = append(errs, c.checkRefs(base+".prerequisites", a.ID, a.Prerequisites, ErrUnknownPrerequisite)...)
		errs = append(errs, c.checkRefs(base+".related", a.ID, a.Related, ErrUnknownRelated)...)
		errs = append(errs, checkDuplicates(base+".tags", a.Tags)...)
	}

	for _, cycle := range prerequisiteCycles(c.algorithms) {
		errs = append(errs, ValidationError{
			Field:   "algorithms." + cycle[0] + ".prerequisites",
			Message: "prerequisite cycle: " + strings.Join(cycle, " -> "),
			Code:    ErrPrerequisiteCycle,
		})
	}
	return errs
}

func (c *Catalog) checkRefs(field, self string, refs []string, code string) ValidationErrors {
	var errs ValidationErrors
	for i, ref := range refs {
		path := fmt.Sprintf("%s[%d]", field, i)
		if ref == self {
			errs = append(errs, ValidationError{Field: path, Message: "refers to itself", Code: ErrSelfReference})
			continue
		}
		if _, ok := c.byID[ref]; !ok {
			errs = append(errs, ValidationError{Field: path, Message: fmt.Sprintf("unknown algorithm %q", ref), Code: code})
		}
	}
	return append(errs, checkDuplicates(field, refs)...)
}

func checkDuplicates(field string, values []string) ValidationErrors {
	var errs ValidationErrors
	for i, v := range values {
		if slices.Index(values, v) != i {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: fmt.Sprintf("duplicate %q", v),
				Code:    ErrDuplicateEntry,
			})
		}
	}
	return errs
}

// prerequisiteCycles returns each strongly connected group of the
// prerequisite graph that contains a cycle, as a closed path starting and
// ending at the same id. Self references are reported by checkRefs.
func prerequisiteCycles(algos []Algorithm) [][]string {
	graph := make(map[string][]string, len(algos))
	var order []string
	for _, a := range algos {
		graph[a.ID] = slices.DeleteFunc(slices.Clone(a.Prerequisites), func(p string) bool { return p == a.ID })
		order = append(order, a.ID)
	}

	var (
		index   int
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		cycles  [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, known := graph[w]; !known {
				continue
			}
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 {
				cycles = append(cycles, cyclePath(scc, graph))
			}
		}
	}

	// Declaration order keeps the report stable.
	for _, id := range order {
		if _, visited := indices[id]; !visited {
			strongConnect(id)
		}
	}
	return cycles
}

// cyclePath walks from the root of scc (the last member popped) along edges
// inside scc until it returns to the root.
func cyclePath(scc []string, graph map[string][]string) []string {
	start := scc[len(scc)-1]
	path := []string{start}
	visited := map[string]bool{start: true}
	current := start
	for {
		next := ""
		for _, w := range graph[current] {
			if slices.Contains(scc, w) && (w == start || !visited[w]) {
				next = w
				break
			}
		}
		if next == "" {
			return path
		}
		path = append(path, next)
		if next == start {
			return path
		}
		visited[next] = true
		current = next
	}
}
