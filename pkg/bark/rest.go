package bark

import (
	"fmt"
	"runtime/debug"

	"github.com/sre-norns/waymark/pkg/links"
)

// API Response types
type (
	// ErrorResponse represents a single error response with human readable reason and a code.
	ErrorResponse struct {
		// Error code represents error ID from a relevant domain
		Code int `json:"code" yaml:"code"`

		// Human readable representation of the error, suitable for display
		Message string `json:"message,omitempty" yaml:"message,omitempty"`

		links.HResponse `json:",inline" yaml:",inline"`
	}

	// StatusResponse represents ready state / healthcheck response
	StatusResponse struct {
		Ready bool `json:"ready" yaml:"ready"`
	}

	// VersionResponse is a standard response object for /version request to inspect server running version.
	VersionResponse struct {
		Version   string `json:"version,omitempty" yaml:"version,omitempty"`
		GoVersion string `json:"goVersion,omitempty" yaml:"goVersion,omitempty"`
	}

	// AboutResponse describes the running server: enabled features, API revision and build version.
	AboutResponse struct {
		APIRevision int             `json:"apiRevision" yaml:"apiRevision"`
		FeatureInfo map[string]bool `json:"featureInfo" yaml:"featureInfo"`
		VersionInfo VersionResponse `json:"versionInfo" yaml:"versionInfo"`

		links.HResponse `json:",inline" yaml:",inline"`
	}
)

// HResponseOption defines a type of 'optional' function that modifies HResponse properties when a new HResponse is constructed
type HResponseOption func(r *links.HResponse)

// WithLink returns an [HResponseOption] option that adds a HATEOAS link to a response object
func WithLink(role string, link links.Link) HResponseOption {
	return func(r *links.HResponse) {
		if r == nil {
			return
		}

		if r.Links == nil {
			r.Links = make(map[string]links.Link)
		}

		r.Links[role] = link
	}
}

// NewErrorResponse return new [ErrorResponse] object built from an object implementing [error] interface.
// The constructor returns nil if err argument is nil and no other options passed.
func NewErrorResponse(statusCode int, err error, options ...HResponseOption) (result *ErrorResponse) {
	if err == nil && len(options) == 0 {
		return
	}

	message := ""
	if err != nil {
		message = err.Error()
	}

	result = &ErrorResponse{
		Code:    statusCode,
		Message: message,
	}

	for _, o := range options {
		o(&result.HResponse)
	}

	return
}

// Error returns string representation of the error to implement error interface for [ErrorResponse] type.
func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("%v %s", e.Code, e.Message)
}

func NewVersionResponse() VersionResponse {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return VersionResponse{
			Version: "unknown",
		}
	}

	return VersionResponse{
		Version:   bi.Main.Version,
		GoVersion: bi.GoVersion,
	}
}

// NewAboutResponse creates description of a server. Every known feature is listed, marked as enabled if it is in the enabled set.
func NewAboutResponse(revision int, known []string, enabled links.StringSet, options ...HResponseOption) AboutResponse {
	result := AboutResponse{
		APIRevision: revision,
		FeatureInfo: make(map[string]bool, len(known)),
		VersionInfo: NewVersionResponse(),
	}

	for _, feature := range known {
		result.FeatureInfo[feature] = enabled.Has(feature)
	}

	for _, o := range options {
		o(&result.HResponse)
	}

	return result
}
