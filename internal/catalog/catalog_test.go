package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonhuth/dsa/internal/algo"
)

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	require.NoError(t, err)
	return c
}

func TestLoad_MatchesRegistry(t *testing.T) {
	c := mustLoad(t)
	reg := algo.NewRegistry()

	assert.Equal(t, reg.IDs(), c.IDs(), "every runnable algorithm has metadata and vice versa")
	for _, a := range c.Algorithms() {
		impl, ok := reg.Lookup(a.ID)
		require.True(t, ok, a.ID)
		assert.Equal(t, impl.Kind, a.Visualization, "%s visualization", a.ID)
	}
}

func TestLoad_SamplesAreValidInputs(t *testing.T) {
	c := mustLoad(t)
	reg := algo.NewRegistry()
	for _, a := range c.Algorithms() {
		require.NotEmpty(t, a.Samples, a.ID)
		for _, s := range a.Samples {
			t.Run(a.ID+"/"+s.Name, func(t *testing.T) {
				steps, err := reg.Run(context.Background(), a.ID, s.Input)
				require.NoError(t, err, "input %s", s.Input)
				assert.NotEmpty(t, steps)
			})
		}
	}
}

func TestLoad_DeclarationOrder(t *testing.T) {
	c := mustLoad(t)
	cats := c.Categories()
	require.Len(t, cats, 5)
	assert.Equal(t, "sorting", cats[0].ID)
	assert.Equal(t, "dynamic_programming", cats[4].ID)

	algos := c.Algorithms()
	assert.Equal(t, "bubble_sort", algos[0].ID)
	assert.Equal(t, "lcs", algos[len(algos)-1].ID)
}

func TestLoad_Fields(t *testing.T) {
	c := mustLoad(t)
	a, ok := c.Algorithm("quick_sort")
	require.True(t, ok)
	assert.Equal(t, "Quick Sort", a.Name)
	assert.Equal(t, Medium, a.Difficulty)
	assert.Equal(t, "O(n²)", a.Complexity.Worst)
	assert.NotEmpty(t, a.Complexity.Explanation)
	assert.Equal(t, []string{"bubble_sort"}, a.Prerequisites)
	assert.JSONEq(t, `{"array":[10,7,8,9,1,5]}`, string(a.Samples[0].Input))

	a, _ = c.Algorithm("insertion_sort")
	assert.Empty(t, a.Complexity.Explanation, "optional field")
	assert.Equal(t, []string{}, a.Prerequisites, "defaults to an empty list")

	_, ok = c.Algorithm("radix_sort")
	assert.False(t, ok)
}

func TestQueries(t *testing.T) {
	c := mustLoad(t)

	assert.Len(t, c.ByCategory("sorting"), 6)
	assert.Len(t, c.ByCategory("trees"), 6)
	assert.Empty(t, c.ByCategory("heaps"))

	for _, a := range c.ByDifficulty(Easy) {
		assert.Equal(t, Easy, a.Difficulty)
	}
	assert.NotEmpty(t, c.ByTag("interview-favorite"))

	ids := func(as []Algorithm) []string {
		var out []string
		for _, a := range as {
			out = append(out, a.ID)
		}
		return out
	}
	assert.Equal(t, []string{"bst_insert", "bst_search"}, ids(c.Search("BST")))
	assert.Contains(t, ids(c.Search("shortest-path")), "dijkstra", "tags are searched")
	assert.Len(t, c.Search("  "), len(c.Algorithms()))
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := mustLoad(t)
	algos := c.Algorithms()
	algos[0].Name = "changed"
	a, _ := c.Algorithm(algos[0].ID)
	assert.NotEqual(t, "changed", a.Name)
}

// schema returns the schema half of the embedded document.
func schema(t *testing.T) string {
	t.Helper()
	head, _, ok := strings.Cut(string(source), "\ncategories: {\n")
	require.True(t, ok)
	return head + "\n"
}

const oneCategory = `
categories: sorting: {name: "Sorting", description: "d"}
`

func entry(id, extra string) string {
	return `algorithms: ` + id + `: {
	name: "` + id + `"
	category: "sorting"
	difficulty: "easy"
	visualization: "array"
	complexity: {best: "1", average: "1", worst: "1", space: "1"}
	description: "d"
	samples: [{name: "s", input: {array: [1]}}]
	` + extra + `
}
`
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := map[string]string{
		"bad difficulty": strings.Replace(entry("a", ""), `"easy"`, `"impossible"`, 1),
		"unknown field":  entry("a", `author: "x"`),
		"empty name":     strings.Replace(entry("a", ""), `name: "a"`, `name: ""`, 1),
		"no samples":     strings.Replace(entry("a", ""), `samples: [{name: "s", input: {array: [1]}}]`, `samples: []`, 1),
		"bad kind":       strings.Replace(entry("a", ""), `"array"`, `"heap"`, 1),
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(schema(t)+oneCategory+body), "test.cue")
			require.Error(t, err)
			var ce *CompileError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestParse_CrossReferences(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"unknown category", strings.Replace(entry("a", ""), `category: "sorting"`, `category: "heaps"`, 1), ErrUnknownCategory},
		{"unknown prerequisite", entry("a", `prerequisites: ["radix_sort"]`), ErrUnknownPrerequisite},
		{"unknown related", entry("a", `related: ["b"]`), ErrUnknownRelated},
		{"self reference", entry("a", `related: ["a"]`), ErrSelfReference},
		{"duplicate tag", entry("a", `tags: ["x", "x"]`), ErrDuplicateEntry},
		{"cycle", entry("a", `prerequisites: ["b"]`) + entry("b", `prerequisites: ["c"]`) + entry("c", `prerequisites: ["a"]`), ErrPrerequisiteCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(schema(t)+oneCategory+tt.body), "test.cue")
			require.Error(t, err)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			codes := make([]string, len(verrs))
			for i, e := range verrs {
				codes[i] = e.Code
			}
			assert.Contains(t, codes, tt.code)
		})
	}
}

func TestParse_CycleMessage(t *testing.T) {
	body := entry("a", `prerequisites: ["b"]`) + entry("b", `prerequisites: ["a"]`)
	_, err := Parse([]byte(schema(t)+oneCategory+body), "test.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prerequisite cycle: a -> b -> a")
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse([]byte("categories: {"), "broken.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.cue")
}
