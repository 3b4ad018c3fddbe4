// Package jsoneq implements structural equality of JSON documents.
//
// Two documents are structurally equal when they have the same key sets at every nesting level and equal values at
// every leaf. Object key order is irrelevant, array element order is significant, and numbers are compared by value,
// so `1`, `1.0` and `1e0` are equal.
package jsoneq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Mode selects how strictly documents are compared.
type Mode int

const (
	// Strict mode requires both documents to have identical keys: no missing and no extra keys are tolerated.
	Strict Mode = iota
	// Lenient mode is a subset match: actual document may contain keys that the expected document does not have.
	Lenient
)

const rootPathName = "$"

// ErrTrailingData is returned when a document has more data after the first JSON value.
var ErrTrailingData = errors.New("unexpected data after JSON value")

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Decode parses a single JSON value, keeping numbers as [json.Number].
func Decode(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if _, err := decoder.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}

	return value, nil
}

// Compare parses both documents and returns every difference found between them.
// The error is only returned if either of the documents is not valid JSON.
func Compare(actual, expected []byte, mode Mode) (field.ErrorList, error) {
	actualValue, err := Decode(actual)
	if err != nil {
		return nil, fmt.Errorf("failed to parse actual document: %w", err)
	}

	expectedValue, err := Decode(expected)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expected document: %w", err)
	}

	return CompareValues(actualValue, expectedValue, mode), nil
}

// Equal reports whether both documents are valid JSON and strictly equal.
func Equal(actual, expected []byte) bool {
	diff, err := Compare(actual, expected, Strict)
	return err == nil && len(diff) == 0
}

// CompareValues compares two decoded JSON values, as produced by [Decode].
func CompareValues(actual, expected any, mode Mode) field.ErrorList {
	return compare(nil, actual, expected, mode)
}

func compare(path *field.Path, actual, expected any, mode Mode) field.ErrorList {
	switch expectedValue := expected.(type) {
	case map[string]any:
		actualValue, ok := actual.(map[string]any)
		if !ok {
			return field.ErrorList{typeMismatch(path, actual, expected)}
		}
		return compareObjects(path, actualValue, expectedValue, mode)

	case []any:
		actualValue, ok := actual.([]any)
		if !ok {
			return field.ErrorList{typeMismatch(path, actual, expected)}
		}
		return compareArrays(path, actualValue, expectedValue, mode)

	case json.Number:
		actualValue, ok := actual.(json.Number)
		if !ok {
			return field.ErrorList{typeMismatch(path, actual, expected)}
		}
		if !numbersEqual(actualValue, expectedValue) {
			return field.ErrorList{field.Invalid(at(path), actualValue, fmt.Sprintf("expected %v", expectedValue))}
		}
		return nil

	default:
		// string, bool and null are the only remaining JSON types, all comparable
		if typeOf(actual) != typeOf(expected) {
			return field.ErrorList{typeMismatch(path, actual, expected)}
		}
		if actual != expected {
			return field.ErrorList{field.Invalid(at(path), actual, fmt.Sprintf("expected %s", literal(expected)))}
		}
		return nil
	}
}

func compareObjects(path *field.Path, actual, expected map[string]any, mode Mode) (errs field.ErrorList) {
	actualKeys := sets.KeySet(actual)
	expectedKeys := sets.KeySet(expected)

	for _, key := range sets.List(expectedKeys.Difference(actualKeys)) {
		errs = append(errs, field.Required(child(path, key), "present in reference but missing from actual"))
	}

	if mode == Strict {
		for _, key := range sets.List(actualKeys.Difference(expectedKeys)) {
			errs = append(errs, field.Forbidden(child(path, key), "unexpected key not present in reference"))
		}
	}

	for _, key := range sets.List(expectedKeys.Intersection(actualKeys)) {
		errs = append(errs, compare(child(path, key), actual[key], expected[key], mode)...)
	}

	return errs
}

func compareArrays(path *field.Path, actual, expected []any, mode Mode) (errs field.ErrorList) {
	if len(actual) != len(expected) {
		errs = append(errs, field.Invalid(at(path), fmt.Sprintf("%d elements", len(actual)), fmt.Sprintf("expected %d elements", len(expected))))
	}

	for i := 0; i < min(len(actual), len(expected)); i++ {
		errs = append(errs, compare(index(path, i), actual[i], expected[i], mode)...)
	}

	return errs
}

func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}

	x, _, errX := big.ParseFloat(string(a), 10, 256, big.ToNearestEven)
	y, _, errY := big.ParseFloat(string(b), 10, 256, big.ToNearestEven)
	if errX != nil || errY != nil {
		return false
	}

	return x.Cmp(y) == 0
}

func literal(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return string(data)
}

func typeMismatch(path *field.Path, actual, expected any) *field.Error {
	return field.TypeInvalid(at(path), typeOf(actual), fmt.Sprintf("expected %s", typeOf(expected)))
}

func typeOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func at(path *field.Path) *field.Path {
	if path == nil {
		return field.NewPath(rootPathName)
	}

	return path
}

func child(path *field.Path, key string) *field.Path {
	if path == nil {
		return field.NewPath(key)
	}

	return path.Child(key)
}

func index(path *field.Path, i int) *field.Path {
	return at(path).Index(i)
}
