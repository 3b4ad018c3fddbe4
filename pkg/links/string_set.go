package links

import (
	"sort"
	"strings"
)

// StringSet is a set of strings, used for feature flags and relation names.
type StringSet map[string]struct{}

func NewStringSet(values ...string) StringSet {
	result := make(StringSet, len(values))

	for _, value := range values {
		result[value] = struct{}{}
	}

	return result
}

// ParseStringSet returns a set of non-empty, trimmed values of a comma separated list.
func ParseStringSet(list string) StringSet {
	result := StringSet{}
	for _, value := range strings.Split(list, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			result[value] = struct{}{}
		}
	}

	return result
}

func (s StringSet) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// Sorted returns values of the set in lexical order.
func (s StringSet) Sorted() []string {
	if s == nil {
		return nil
	}

	l := make(sort.StringSlice, 0, len(s))
	for key := range s {
		l = append(l, key)
	}
	l.Sort()

	return l
}

func (s StringSet) JoinSorted(sep string) string {
	return strings.Join(s.Sorted(), sep)
}
