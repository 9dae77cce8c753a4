package arangotest

import (
	"encoding/json"
	"reflect"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

// matchesExample checks that every attribute of example is present in doc
// with an equal value
func matchesExample(doc domain.Document, example map[string]interface{}) bool {
	for field, expected := range example {
		actual, exists := doc[field]
		if !exists {
			return false
		}
		if !valuesMatch(actual, expected) {
			return false
		}
	}
	return true
}

// valuesMatch compares two decoded JSON values, numbers by value
func valuesMatch(actual, expected interface{}) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	if a, ok := toFloat64(actual); ok {
		if e, ok := toFloat64(expected); ok {
			return a == e
		}
		return false
	}
	if a, ok := actual.(map[string]interface{}); ok {
		e, ok := expected.(map[string]interface{})
		return ok && len(a) == len(e) && matchesExample(a, e)
	}
	return reflect.DeepEqual(actual, expected)
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
