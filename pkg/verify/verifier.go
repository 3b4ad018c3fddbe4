// Package verify checks that a running server serves the expected API root document.
//
// A verification is a single synchronous exchange: the reference is loaded, the root document is fetched with one
// GET request, and both are compared with [jsoneq.Compare]. Nothing is retried: a failed request, a mismatch or a
// broken reference ends the verification and is reported to the caller.
package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sre-norns/waymark/pkg/bark"
	"github.com/sre-norns/waymark/pkg/jsoneq"
	"github.com/xeipuuv/gojsonschema"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// State is a step of a verification.
type State int

const (
	StateIdle State = iota
	StateRequestSent
	StateResponseReceived
	StateCompared
	StatePassed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRequestSent:
		return "RequestSent"
	case StateResponseReceived:
		return "ResponseReceived"
	case StateCompared:
		return "Compared"
	case StatePassed:
		return "Passed"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Report describes a finished verification.
type Report struct {
	Target string
	Mode   jsoneq.Mode
	// Trace lists states the verification went through, ending with [StatePassed] or [StateFailed]
	Trace []State
	// Diff is the list of differences found, if documents were compared
	Diff field.ErrorList
}

// State returns the last state of the verification.
func (r Report) State() State {
	if len(r.Trace) == 0 {
		return StateIdle
	}

	return r.Trace[len(r.Trace)-1]
}

// Passed is true if the served document matches the reference.
func (r Report) Passed() bool {
	return r.State() == StatePassed
}

func (r *Report) enter(s State) {
	r.Trace = append(r.Trace, s)
}

// Verifier fetches the root document of a server and compares it with a reference.
// A Verifier holds no per-verification state and may be shared.
type Verifier struct {
	client *http.Client
	mode   jsoneq.Mode
	schema gojsonschema.JSONLoader
}

// Option customizes a [Verifier].
type Option func(v *Verifier)

// WithClient sets HTTP client used to fetch the root document. Timeouts are the client's concern.
func WithClient(client *http.Client) Option {
	return func(v *Verifier) {
		v.client = client
	}
}

// WithMode selects comparison mode. [jsoneq.Strict] is the default.
func WithMode(mode jsoneq.Mode) Option {
	return func(v *Verifier) {
		v.mode = mode
	}
}

// WithReferenceSchema replaces [RootDocumentSchema] used to validate reference documents. Nil disables validation.
func WithReferenceSchema(schema gojsonschema.JSONLoader) Option {
	return func(v *Verifier) {
		v.schema = schema
	}
}

// New creates a verifier doing strict comparison with [http.DefaultClient], unless options say otherwise.
func New(options ...Option) *Verifier {
	result := &Verifier{
		client: http.DefaultClient,
		mode:   jsoneq.Strict,
		schema: RootDocumentSchema,
	}

	for _, o := range options {
		o(result)
	}

	return result
}

// Verify checks root document served at baseURL against the reference.
// Returned error is nil only if the verification passed; otherwise it matches one of [ErrReferenceNotFound],
// [ErrTransport] or [ErrComparisonMismatch] with [errors.Is].
func (v *Verifier) Verify(ctx context.Context, baseURL string, reference Reference) (Report, error) {
	report := Report{
		Target: baseURL,
		Mode:   v.mode,
	}
	report.enter(StateIdle)

	expected, err := reference.Load(v.schema)
	if err != nil {
		report.enter(StateFailed)
		return report, err
	}

	report.enter(StateRequestSent)
	actual, err := v.Fetch(ctx, baseURL)
	if err != nil {
		report.enter(StateFailed)
		return report, err
	}
	report.enter(StateResponseReceived)

	diff, err := jsoneq.Compare(actual, expected, v.mode)
	if err != nil {
		// Reference has been validated, so only the served document can be broken
		diff = field.ErrorList{field.TypeInvalid(field.NewPath("$"), "non-JSON body", err.Error())}
	}
	report.enter(StateCompared)
	report.Diff = diff

	if len(diff) > 0 {
		report.enter(StateFailed)
		return report, &MismatchError{Target: baseURL, Diff: diff}
	}

	report.enter(StatePassed)
	return report, nil
}

// Fetch returns body of the root document served at baseURL. All failures are [ErrTransport] errors.
func (v *Verifier) Fetch(ctx context.Context, baseURL string) ([]byte, error) {
	target, err := RootURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create a new GET request: %w", ErrTransport, err)
	}
	req.Header.Set(bark.HTTPHeaderAccept, bark.MimeTypeJSON)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to GET %s: %w", ErrTransport, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: GET %s was unsuccessful: %v", ErrTransport, target, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body of %s: %w", ErrTransport, target, err)
	}

	return body, nil
}

// RootURL returns URL of the root resource of a server at baseURL. A path in baseURL is kept as a prefix.
func RootURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}
