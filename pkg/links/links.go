package links

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
)

var (
	// ErrDuplicateRelation is returned when a document or a registry names the same relation more than once.
	ErrDuplicateRelation = errors.New("duplicate relation")
	// ErrNotAnObject is returned when a root document is decoded from a JSON value that is not an object.
	ErrNotAnObject = errors.New("root document must be a JSON object")
	// ErrTrailingData is returned when a root document is followed by more data.
	ErrTrailingData = errors.New("unexpected data after root document")
)

// Link is a semantic web link: a URI, or a URI template the client must expand before dereferencing.
type Link struct {
	Href      string `json:"href" yaml:"href"`
	Templated bool   `json:"templated,omitempty" yaml:"templated,omitempty"`
}

// NamedLink is a [Link] exposed under a relation name.
type NamedLink struct {
	Rel string `json:"-" yaml:"rel"`

	Link `json:",inline" yaml:",inline"`
}

// HResponse is a response object, produced by a server that has semantic references
type HResponse struct {
	Links map[string]Link `form:"_links" json:"_links,omitempty" yaml:"_links,omitempty"`
}

// RootDocument is the hypermedia entry point of the API: an ordered set of relations, each pointing to a resource collection.
// The zero value is an empty document.
type RootDocument struct {
	links []NamedLink
}

// NewRootDocument builds a document from the given links, preserving their order.
func NewRootDocument(links ...NamedLink) (RootDocument, error) {
	seen := make(StringSet, len(links))
	for _, l := range links {
		if seen.Has(l.Rel) {
			return RootDocument{}, fmt.Errorf("%w: %q", ErrDuplicateRelation, l.Rel)
		}
		seen[l.Rel] = struct{}{}
	}

	return RootDocument{links: slices.Clone(links)}, nil
}

// Links returns a copy of the document links in registration order.
func (d RootDocument) Links() []NamedLink {
	return slices.Clone(d.links)
}

// Len returns number of relations in the document.
func (d RootDocument) Len() int {
	return len(d.links)
}

// Relations returns relation names in registration order.
func (d RootDocument) Relations() []string {
	result := make([]string, 0, len(d.links))
	for _, l := range d.links {
		result = append(result, l.Rel)
	}

	return result
}

// Get returns a link for the given relation.
func (d RootDocument) Get(rel string) (Link, bool) {
	for _, l := range d.links {
		if l.Rel == rel {
			return l.Link, true
		}
	}

	return Link{}, false
}

// MarshalJSON writes the document as a JSON object keyed by relation, in registration order.
func (d RootDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range d.links {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(l.Rel)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(l.Link)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal link %q: %w", l.Rel, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON reads a document keeping relations in the order they appear in the input.
func (d *RootDocument) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	tok, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotAnObject
	}

	var links []NamedLink
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return err
		}
		// Object keys are always strings
		rel := tok.(string)

		var link *Link
		if err := decoder.Decode(&link); err != nil {
			return fmt.Errorf("failed to decode link %q: %w", rel, err)
		}
		if link == nil || link.Href == "" {
			return fmt.Errorf("relation %q: %w", rel, ErrNoHref)
		}
		links = append(links, NamedLink{Rel: rel, Link: *link})
	}

	if _, err := decoder.Token(); err != nil {
		return err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return ErrTrailingData
	}

	doc, err := NewRootDocument(links...)
	if err != nil {
		return err
	}

	*d = doc
	return nil
}
