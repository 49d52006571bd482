// Package normalize turns the differently shaped bank listings returned by upstream
// directories into one canonical list of bank entries.
package normalize

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Shape names the layout a listing body was recognised as.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeArray
	ShapeData
	ShapeResult
	ShapeNestedArray
	ShapeSingle
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeData:
		return "data"
	case ShapeResult:
		return "result"
	case ShapeNestedArray:
		return "nested_array"
	case ShapeSingle:
		return "single"
	default:
		return "none"
	}
}

// Listing is the outcome of shape detection. Items is only meaningful when Shape != ShapeNone.
type Listing struct {
	Shape Shape
	Items []any
}

// document is a decoded body plus the order its top-level keys appeared in.
type document struct {
	value any
	keys  []string
}

type shapeRule struct {
	shape Shape
	match func(doc document) ([]any, bool)
}

// rules are evaluated top to bottom; the first match wins.
var rules = []shapeRule{
	{ShapeArray, matchArray},
	{ShapeData, matchField("data")},
	{ShapeResult, matchField("result")},
	{ShapeNestedArray, matchAnyArrayField},
	{ShapeSingle, matchSingleRecord},
}

// ExtractListing decodes body and returns the listing array it carries.
// It reports false when the body is not JSON or no rule matched.
func ExtractListing(body []byte) (Listing, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return Listing{Shape: ShapeNone}, false
	}
	doc := document{value: value}
	if _, ok := value.(map[string]any); ok {
		doc.keys = propertyOrder(body)
	}
	return matchListing(doc)
}

// MatchListing runs the shape rules against an already decoded document. The source key
// order is gone at that point, so the any-array rule walks object keys sorted.
func MatchListing(value any) (Listing, bool) {
	return matchListing(document{value: value})
}

func matchListing(doc document) (Listing, bool) {
	for _, r := range rules {
		if items, ok := r.match(doc); ok {
			return Listing{Shape: r.shape, Items: items}, true
		}
	}
	return Listing{Shape: ShapeNone}, false
}

func matchArray(doc document) ([]any, bool) {
	arr, ok := doc.value.([]any)
	return arr, ok
}

func matchField(key string) func(document) ([]any, bool) {
	return func(doc document) ([]any, bool) {
		obj, ok := doc.value.(map[string]any)
		if !ok {
			return nil, false
		}
		arr, ok := obj[key].([]any)
		return arr, ok
	}
}

// matchAnyArrayField accepts the first array-valued property in property order.
func matchAnyArrayField(doc document) ([]any, bool) {
	obj, ok := doc.value.(map[string]any)
	if !ok {
		return nil, false
	}

	keys := doc.keys
	if keys == nil {
		keys = make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	for _, k := range keys {
		if arr, ok := obj[k].([]any); ok {
			return arr, true
		}
	}
	return nil, false
}

// propertyOrder lists the top-level keys of a JSON object in enumeration order:
// array-index keys ascending first, then the remaining keys by first appearance.
func propertyOrder(body []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var indexes []uint64
	var names []string
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, _ := tok.(string)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		if n, ok := arrayIndex(key); ok {
			indexes = append(indexes, n)
			continue
		}
		names = append(names, key)
	}

	sort.Slice(indexes, func(i, j int) bool { return indexes[i] < indexes[j] })
	keys := make([]string, 0, len(indexes)+len(names))
	for _, n := range indexes {
		keys = append(keys, strconv.FormatUint(n, 10))
	}
	return append(keys, names...)
}

// arrayIndex reports whether key is a canonical array index ("0", "17", never "01").
func arrayIndex(key string) (uint64, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 || strconv.FormatUint(n, 10) != key {
		return 0, false
	}
	return n, true
}

// matchSingleRecord promotes an object that looks like a bank record to a one-element list.
func matchSingleRecord(doc document) ([]any, bool) {
	obj, ok := doc.value.(map[string]any)
	if !ok {
		return nil, false
	}
	if firstString(obj, shortNameKeys...) == "" && firstPresent(obj, binKeys...) == nil {
		return nil, false
	}
	return []any{obj}, true
}
