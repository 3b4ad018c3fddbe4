package webhooks

import (
	"fmt"
	"net/url"
	"strings"
)

// WebhookSpec identifies an endpoint to notify.
type WebhookSpec struct {
	Schema string `json:"schema" yaml:"schema"`
	Host   string `json:"host,omitempty" yaml:"host,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ParseWebhookSpec splits a webhook URL into a [WebhookSpec].
func ParseWebhookSpec(rawURL string) (WebhookSpec, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return WebhookSpec{}, err
	}
	if u.Scheme == "" || u.Host == "" {
		return WebhookSpec{}, fmt.Errorf("webhook URL %q must be absolute", rawURL)
	}

	return WebhookSpec{
		Schema: u.Scheme,
		Host:   u.Host,
		Path:   u.Path,
	}, nil
}

func (w WebhookSpec) TargetURL() (*url.URL, error) {
	target, err := url.Parse(fmt.Sprintf("%s://%v", w.Schema, w.Host))
	if err != nil {
		return target, err
	}

	target = target.JoinPath(w.Path)
	return target, err
}

// VerificationEvent is a payload sent when a verification of a target completes.
type VerificationEvent struct {
	Target    string   `json:"target" yaml:"target"`
	Reference string   `json:"reference" yaml:"reference"`
	Mode      string   `json:"mode" yaml:"mode"`
	Passed    bool     `json:"passed" yaml:"passed"`
	State     string   `json:"state" yaml:"state"`
	Trace     []string `json:"trace,omitempty" yaml:"trace,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`

	// Differences found between the served document and the reference, one per line
	Differences []string `json:"differences,omitempty" yaml:"differences,omitempty"`
}

// String returns a one-line summary of the event.
func (e VerificationEvent) String() string {
	if e.Passed {
		return fmt.Sprintf("%s: PASS (%s)", e.Target, e.Mode)
	}

	return fmt.Sprintf("%s: FAIL at %s: %s", e.Target, e.State, strings.SplitN(e.Error, "\n", 2)[0])
}
