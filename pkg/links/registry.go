package links

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultAPIRevision is the revision of the root document served when the registry does not set one.
const DefaultAPIRevision = 14

var (
	// ErrNoRelationName error indicates a registry entry without a relation name.
	ErrNoRelationName = errors.New("relation name is required")
	// ErrNoHref error indicates a registry entry without href.
	ErrNoHref = errors.New("relation href is required")
)

// Well known features that gate relations of the default registry.
const (
	FeatureStreams   = "streams"
	FeatureTasks     = "tasks"
	FeatureSchedules = "schedules"
	FeatureApps      = "apps"
)

// Relation is a registry entry: a relation name, the URI template it points to, and an optional feature that has
// to be enabled for the relation to be exposed.
type Relation struct {
	Rel     string `json:"rel" yaml:"rel"`
	Href    string `json:"href" yaml:"href"`
	Feature string `json:"feature,omitempty" yaml:"feature,omitempty"`
}

// RegistrySpec is the on-disk form of a registry.
type RegistrySpec struct {
	Revision  int        `json:"revision,omitempty" yaml:"revision,omitempty"`
	Relations []Relation `json:"relations" yaml:"relations"`
}

// Registry is a static, ordered set of relations established once at server start.
// It is immutable, so it is safe for concurrent use.
type Registry struct {
	baseURL   string
	revision  int
	relations []Relation
	document  RootDocument
}

// DefaultRelations returns relations exposed by a server started without a registry file.
func DefaultRelations() []Relation {
	return []Relation{
		{Rel: "streams", Href: "/streams", Feature: FeatureStreams},
		{Rel: "tasks", Href: "/tasks", Feature: FeatureTasks},
		{Rel: "jobs", Href: "/jobs", Feature: FeatureTasks},
		{Rel: "apps", Href: "/apps", Feature: FeatureApps},
		{Rel: "about", Href: "/about"},
	}
}

// DefaultFeatures returns the features enabled by default.
func DefaultFeatures() StringSet {
	return NewStringSet(FeatureStreams, FeatureTasks, FeatureSchedules, FeatureApps)
}

// LoadRegistryFile reads a YAML registry spec from the path.
func LoadRegistryFile(path string) (RegistrySpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return RegistrySpec{}, fmt.Errorf("failed to open registry file: %w", err)
	}
	defer f.Close()

	var spec RegistrySpec
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return RegistrySpec{}, fmt.Errorf("failed to parse registry file %q: %w", path, err)
	}

	return spec, nil
}

// Build creates a [Registry] from the spec. Relations gated by a feature not in enabled set are left out.
func (s RegistrySpec) Build(baseURL string, enabled StringSet) (*Registry, error) {
	registry, err := NewRegistry(baseURL, s.Relations...)
	if err != nil {
		return nil, err
	}

	if s.Revision != 0 {
		registry = registry.WithRevision(s.Revision)
	}

	return registry.WithFeatures(enabled)
}

// NewRegistry validates relations and returns a registry exposing all of them.
// All invalid entries are reported at once, as a [ErrorSet].
// Relation hrefs starting with '/' are prefixed with baseURL.
func NewRegistry(baseURL string, relations ...Relation) (*Registry, error) {
	return newRegistry(strings.TrimSuffix(baseURL, "/"), DefaultAPIRevision, relations)
}

func newRegistry(baseURL string, revision int, relations []Relation) (*Registry, error) {
	var errs []error
	seen := make(StringSet, len(relations))
	links := make([]NamedLink, 0, len(relations))

	for i, r := range relations {
		if r.Rel == "" {
			errs = append(errs, fmt.Errorf("relation #%d: %w", i, ErrNoRelationName))
			continue
		}
		if seen.Has(r.Rel) {
			errs = append(errs, fmt.Errorf("relation #%d: %w: %q", i, ErrDuplicateRelation, r.Rel))
			continue
		}
		seen[r.Rel] = struct{}{}

		if r.Href == "" {
			errs = append(errs, fmt.Errorf("relation %q: %w", r.Rel, ErrNoHref))
			continue
		}

		link, err := NewLink(resolveHref(baseURL, r.Href))
		if err != nil {
			errs = append(errs, fmt.Errorf("relation %q: %w", r.Rel, err))
			continue
		}

		links = append(links, NamedLink{Rel: r.Rel, Link: link})
	}

	if err := AsMultiErrorOrNil(errs...); err != nil {
		return nil, err
	}

	doc, err := NewRootDocument(links...)
	if err != nil {
		return nil, err
	}

	return &Registry{
		baseURL:   baseURL,
		revision:  revision,
		relations: slices.Clone(relations),
		document:  doc,
	}, nil
}

func resolveHref(baseURL, href string) string {
	if baseURL == "" || !strings.HasPrefix(href, "/") {
		return href
	}

	return baseURL + href
}

// WithRevision returns a copy of the registry that reports the given API revision.
func (r *Registry) WithRevision(revision int) *Registry {
	result := *r
	result.revision = revision
	return &result
}

// WithFeatures returns a registry that only exposes relations which are not gated by a feature, or whose feature is enabled.
func (r *Registry) WithFeatures(enabled StringSet) (*Registry, error) {
	filtered := make([]Relation, 0, len(r.relations))
	for _, rel := range r.relations {
		if rel.Feature == "" || enabled.Has(rel.Feature) {
			filtered = append(filtered, rel)
		}
	}

	return newRegistry(r.baseURL, r.revision, filtered)
}

// Revision returns API revision advertised alongside the root document.
func (r *Registry) Revision() int {
	return r.revision
}

// Relations returns a copy of registered relations in registration order.
func (r *Registry) Relations() []Relation {
	return slices.Clone(r.relations)
}

// BuildRootDocument returns the root document. The result is derived only from the registry and never changes.
func (r *Registry) BuildRootDocument() RootDocument {
	return r.document
}
