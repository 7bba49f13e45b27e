package algo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// InputError reports a malformed algorithm input. The whole invocation fails;
// no steps are produced.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// IsInputError reports whether err is an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// Input size limits. They keep step counts bounded for interactive use.
const (
	MaxArrayLen   = 50
	MinValue      = -999
	MaxValue      = 999
	MaxGraphNodes = 26
	MaxGridSide   = 12
	MaxTreeValues = 31
	MaxFibN       = 20
	MaxItems      = 10
	MaxCapacity   = 30
	MaxStringLen  = 12
	MaxWeight     = 99
)

// ArrayInput is the payload of the sorting algorithms.
type ArrayInput struct {
	Array []int `json:"array" validate:"required,max=50,dive,gte=-999,lte=999"`
}

// SearchInput is the payload of linear_search and binary_search.
type SearchInput struct {
	Array  []int `json:"array" validate:"required,max=50,dive,gte=-999,lte=999"`
	Target *int  `json:"target" validate:"required,gte=-999,lte=999"`
}

// BinarySearchInput is SearchInput over an array sorted in non-decreasing
// order.
type BinarySearchInput SearchInput

// GraphInput is an unweighted adjacency list, {"0": [1, 2], ...}.
type GraphInput struct {
	Graph  map[int][]int `json:"graph" validate:"required,min=1"`
	Start  *int          `json:"start" validate:"required"`
	Target *int          `json:"target"`
}

// WeightedGraphInput is an adjacency list of [neighbor, weight] pairs.
type WeightedGraphInput struct {
	Graph  map[int][][]int `json:"graph" validate:"required,min=1"`
	Start  *int            `json:"start" validate:"required"`
	Target *int            `json:"target"`
}

// GridInput is a rectangular 0/1 matrix.
type GridInput struct {
	Grid [][]int `json:"grid" validate:"required,max=12,dive,max=12,dive,oneof=0 1"`
}

// BSTInput lists values to insert into a binary search tree, in order.
type BSTInput struct {
	Values []int `json:"values" validate:"required,max=31,dive,gte=-999,lte=999"`
}

// BSTSearchInput builds a BST from Values and then searches for Target.
type BSTSearchInput struct {
	Values []int `json:"values" validate:"required,max=31,dive,gte=-999,lte=999"`
	Target *int  `json:"target" validate:"required,gte=-999,lte=999"`
}

// LevelOrderInput describes a binary tree in level order, null marking a
// missing child.
type LevelOrderInput struct {
	Values []*int `json:"values" validate:"required,max=31,dive,omitnil,gte=-999,lte=999"`
}

// FibInput is the payload of both fibonacci variants.
type FibInput struct {
	N *int `json:"n" validate:"required,gte=0,lte=20"`
}

// KnapsackInput lists [weight, value] items and the knapsack capacity.
type KnapsackInput struct {
	Items    [][]int `json:"items" validate:"required,max=10,dive,len=2,dive,gte=0,lte=99"`
	Capacity *int    `json:"capacity" validate:"required,gte=0,lte=30"`
}

// LCSInput is the payload of lcs.
type LCSInput struct {
	Str1 string `json:"str1" validate:"max=12"`
	Str2 string `json:"str2" validate:"max=12"`
}

// checker is implemented by inputs with rules that span fields.
type checker interface {
	check() error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeInput strictly decodes raw into T: unknown fields, trailing data and
// non-integer numbers are rejected. Struct rules and cross-field checks run
// afterwards.
func decodeInput[T any](raw json.RawMessage) (T, error) {
	var in T
	if len(bytes.TrimSpace(raw)) == 0 {
		return in, &InputError{Message: "input is required"}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return in, decodeError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return in, &InputError{Message: "unexpected data after input object"}
	}

	if err := validate.Struct(in); err != nil {
		return in, validationError(err)
	}
	if c, ok := any(&in).(checker); ok {
		if err := c.check(); err != nil {
			return in, err
		}
	}
	return in, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "input"
		}
		return &InputError{Field: field, Message: fmt.Sprintf("expected %s, got %s", typeName(typeErr.Type), typeErr.Value)}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &InputError{Message: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)}
	}
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "json: unknown field "); ok {
		return &InputError{Field: strings.Trim(rest, `"`), Message: "unknown field"}
	}
	return &InputError{Message: strings.TrimPrefix(msg, "json: ")}
}

func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int64, reflect.Int32:
		return "integer"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.String:
		return "string"
	case reflect.Pointer:
		return typeName(t.Elem())
	default:
		return t.String()
	}
}

// validationError reports the first failed rule as an InputError.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InputError{Message: err.Error()}
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return &InputError{Field: field, Message: ruleMessage(fe)}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must have at most " + fe.Param() + " entries"
	case "len":
		return "must have exactly " + fe.Param() + " entries"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " rule"
	}
}

func (in *GraphInput) check() error {
	return checkGraph(unweightedAdjacency(in.Graph), *in.Start, in.Target)
}

func (in *WeightedGraphInput) check() error {
	for _, node := range slices.Sorted(maps.Keys(in.Graph)) {
		for i, pair := range in.Graph[node] {
			field := fmt.Sprintf("graph[%d][%d]", node, i)
			if len(pair) != 2 {
				return &InputError{Field: field, Message: "must be a [neighbor, weight] pair"}
			}
			if pair[1] < 0 || pair[1] > MaxWeight {
				return &InputError{Field: field, Message: fmt.Sprintf("weight must be in [0, %d]", MaxWeight)}
			}
		}
	}
	return checkGraph(weightedAdjacency(in.Graph), *in.Start, in.Target)
}

func checkGraph(adj adjacency, start int, target *int) error {
	nodes := graphNodes(adj)
	if len(nodes) > MaxGraphNodes {
		return &InputError{Field: "graph", Message: fmt.Sprintf("must have at most %d nodes", MaxGraphNodes)}
	}
	for _, n := range nodes {
		if n < 0 || n > MaxValue {
			return &InputError{Field: "graph", Message: fmt.Sprintf("node id %d must be in [0, %d]", n, MaxValue)}
		}
	}
	known := func(id int) bool {
		_, found := slices.BinarySearch(nodes, id)
		return found
	}
	if !known(start) {
		return &InputError{Field: "start", Message: fmt.Sprintf("node %d is not in the graph", start)}
	}
	if target != nil && !known(*target) {
		return &InputError{Field: "target", Message: fmt.Sprintf("node %d is not in the graph", *target)}
	}
	return nil
}

func (in *GridInput) check() error {
	for i, row := range in.Grid {
		if len(row) != len(in.Grid[0]) {
			return &InputError{Field: fmt.Sprintf("grid[%d]", i), Message: "rows must all have the same length"}
		}
	}
	return nil
}

func (in *BinarySearchInput) check() error {
	for i := 1; i < len(in.Array); i++ {
		if in.Array[i] < in.Array[i-1] {
			return &InputError{Field: "array", Message: "must be sorted in non-decreasing order"}
		}
	}
	return nil
}

func (in *LevelOrderInput) check() error {
	if len(in.Values) > 0 && in.Values[0] == nil {
		if len(in.Values) > 1 {
			return &InputError{Field: "values", Message: "a tree with a null root must be empty"}
		}
		return nil
	}
	// Every non-null entry after the root must have a parent slot.
	slots := 1
	used := 0
	for i, v := range in.Values {
		if used == slots {
			return &InputError{Field: fmt.Sprintf("values[%d]", i), Message: "entry has no parent in level order"}
		}
		used++
		if v != nil {
			slots += 2
		}
	}
	return nil
}
