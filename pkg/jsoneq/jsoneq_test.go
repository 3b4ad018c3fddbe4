package jsoneq_test

import (
	"testing"

	"github.com/sre-norns/waymark/pkg/jsoneq"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

func TestCompare_Strict(t *testing.T) {
	testCases := map[string]struct {
		actual   string
		expected string
		expect   []string
	}{
		"identical": {
			actual:   `{"apps":{"href":"/apps"}}`,
			expected: `{"apps":{"href":"/apps"}}`,
		},
		"key-order-ignored": {
			actual:   `{"apps":{"href":"/apps"},"about":{"href":"/about"}}`,
			expected: `{"about":{"href":"/about"},"apps":{"href":"/apps"}}`,
		},
		"whitespace-ignored": {
			actual:   "{\n  \"apps\": {\"href\": \"/apps\"}\n}",
			expected: `{"apps":{"href":"/apps"}}`,
		},
		"numbers-by-value": {
			actual:   `{"revision":14.0}`,
			expected: `{"revision":1.4e1}`,
		},
		"missing-key": {
			actual:   `{"apps":{"href":"/apps"}}`,
			expected: `{"apps":{"href":"/apps"},"metrics":{"href":"/metrics"}}`,
			expect:   []string{"metrics: Required value: present in reference but missing from actual"},
		},
		"extra-key": {
			actual:   `{"apps":{"href":"/apps"},"debug":{"href":"/debug"}}`,
			expected: `{"apps":{"href":"/apps"}}`,
			expect:   []string{"debug: Forbidden: unexpected key not present in reference"},
		},
		"nested-extra-key": {
			actual:   `{"apps":{"href":"/apps","templated":false}}`,
			expected: `{"apps":{"href":"/apps"}}`,
			expect:   []string{"apps.templated: Forbidden: unexpected key not present in reference"},
		},
		"value-mismatch": {
			actual:   `{"apps":{"href":"/applications"}}`,
			expected: `{"apps":{"href":"/apps"}}`,
			expect:   []string{`apps.href: Invalid value: "/applications": expected "/apps"`},
		},
		"bool-mismatch": {
			actual:   `{"app":{"href":"/apps/{name}","templated":false}}`,
			expected: `{"app":{"href":"/apps/{name}","templated":true}}`,
			expect:   []string{`app.templated: Invalid value: false: expected true`},
		},
		"number-mismatch": {
			actual:   `{"revision":13}`,
			expected: `{"revision":14}`,
			expect:   []string{`revision: Invalid value: 13: expected 14`},
		},
		"type-mismatch": {
			actual:   `{"apps":"/apps"}`,
			expected: `{"apps":{"href":"/apps"}}`,
			expect:   []string{`apps: Invalid value: "string": expected object`},
		},
		"null-vs-string": {
			actual:   `{"title":null}`,
			expected: `{"title":"Apps"}`,
			expect:   []string{`title: Invalid value: "null": expected string`},
		},
		"array-order-matters": {
			actual:   `{"links":["a","b"]}`,
			expected: `{"links":["b","a"]}`,
			expect: []string{
				`links[0]: Invalid value: "a": expected "b"`,
				`links[1]: Invalid value: "b": expected "a"`,
			},
		},
		"array-length": {
			actual:   `["a"]`,
			expected: `["a","b"]`,
			expect:   []string{`$: Invalid value: "1 elements": expected 2 elements`},
		},
		"root-type": {
			actual:   `[]`,
			expected: `{}`,
			expect:   []string{`$: Invalid value: "array": expected object`},
		},
		"everything-at-once": {
			actual:   `{"apps":{"href":"/apps"},"debug":{"href":"/debug"},"tasks":{"href":"/task"}}`,
			expected: `{"apps":{"href":"/apps"},"metrics":{"href":"/metrics"},"tasks":{"href":"/tasks"}}`,
			expect: []string{
				"metrics: Required value: present in reference but missing from actual",
				"debug: Forbidden: unexpected key not present in reference",
				`tasks.href: Invalid value: "/task": expected "/tasks"`,
			},
		},
	}

	for name, tc := range testCases {
		test := tc
		t.Run(name, func(t *testing.T) {
			got, err := jsoneq.Compare([]byte(test.actual), []byte(test.expected), jsoneq.Strict)
			require.NoError(t, err)
			require.Equal(t, test.expect, errorStrings(got))
		})
	}
}

func TestCompare_Lenient(t *testing.T) {
	testCases := map[string]struct {
		actual   string
		expected string
		expect   []string
	}{
		"extra-keys-tolerated": {
			actual:   `{"apps":{"href":"/apps","title":"Apps"},"debug":{"href":"/debug"}}`,
			expected: `{"apps":{"href":"/apps"}}`,
		},
		"missing-keys-reported": {
			actual:   `{"apps":{"href":"/apps"}}`,
			expected: `{"apps":{"href":"/apps"},"metrics":{"href":"/metrics"}}`,
			expect:   []string{"metrics: Required value: present in reference but missing from actual"},
		},
		"values-still-compared": {
			actual:   `{"apps":{"href":"/applications"}}`,
			expected: `{"apps":{"href":"/apps"}}`,
			expect:   []string{`apps.href: Invalid value: "/applications": expected "/apps"`},
		},
	}

	for name, tc := range testCases {
		test := tc
		t.Run(name, func(t *testing.T) {
			got, err := jsoneq.Compare([]byte(test.actual), []byte(test.expected), jsoneq.Lenient)
			require.NoError(t, err)
			require.Equal(t, test.expect, errorStrings(got))
		})
	}
}

func TestCompare_InvalidDocuments(t *testing.T) {
	testCases := map[string]struct {
		actual   string
		expected string
	}{
		"actual-not-json":   {actual: `<html/>`, expected: `{}`},
		"expected-not-json": {actual: `{}`, expected: `{"apps":`},
		"trailing-data":     {actual: `{} {}`, expected: `{}`},
		"empty":             {actual: ``, expected: `{}`},
	}

	for name, tc := range testCases {
		test := tc
		t.Run(name, func(t *testing.T) {
			_, err := jsoneq.Compare([]byte(test.actual), []byte(test.expected), jsoneq.Strict)
			require.Error(t, err)
		})
	}
}

func TestEqual_Symmetric(t *testing.T) {
	docs := []string{
		`{}`,
		`{"apps":{"href":"/apps"}}`,
		`{"apps":{"href":"/apps","templated":true}}`,
		`{"apps":{"href":"/apps"},"about":{"href":"/about"}}`,
		`[1,2]`,
		`[2,1]`,
	}

	for i, a := range docs {
		for j, b := range docs {
			require.Equal(t, i == j, jsoneq.Equal([]byte(a), []byte(b)), "comparing %s with %s", a, b)
			require.Equal(t, jsoneq.Equal([]byte(a), []byte(b)), jsoneq.Equal([]byte(b), []byte(a)))
		}
	}
}

func TestMode_String(t *testing.T) {
	require.Equal(t, "strict", jsoneq.Strict.String())
	require.Equal(t, "lenient", jsoneq.Lenient.String())
	require.Equal(t, "Mode(7)", jsoneq.Mode(7).String())
}

func errorStrings(errs field.ErrorList) []string {
	if len(errs) == 0 {
		return nil
	}

	result := make([]string, 0, len(errs))
	for _, err := range errs {
		result = append(result, err.Error())
	}

	return result
}
