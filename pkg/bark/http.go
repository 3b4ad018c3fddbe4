package bark

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sre-norns/waymark/pkg/links"
)

const (
	responseMarshalKey = "responseMarshal"
	requestIDKey       = "requestId"

	// MimeTypeJSON is the media type of JSON documents.
	MimeTypeJSON = "application/json"
	// MimeTypeHALJSON is the media type of JSON documents with hypermedia links, accepted as JSON.
	MimeTypeHALJSON = "application/hal+json"

	// well known HTTP headers

	// HTTPHeaderAccept is a standard [header](https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Accept) communicating media format expected by the client
	HTTPHeaderAccept = "Accept"

	// HTTPHeaderContentType is a standard [header](https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Content-Type) inform server of how to interpret request body.
	HTTPHeaderContentType = "Content-Type"

	// HTTPHeaderCacheControl is a standard [header](https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Cache-Control) inform client about caching options for the response received
	HTTPHeaderCacheControl = "Cache-Control"

	// HTTPHeaderRequestID carries ID of a request, either given by a client or generated by the server.
	HTTPHeaderRequestID = "X-Request-ID"

	// HTTPHeaderAPIRevision reports revision of the API root document.
	HTTPHeaderAPIRevision = "X-API-Revision"
)

var (
	// ErrNotAcceptable error indicates that none of the media types listed in [Accept](https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Accept) header can be produced by the API.
	ErrNotAcceptable = errors.New("none of the accepted media types can be produced, use application/json")
)

// Lifted from GIN
func filterFlags(content string) string {
	for i, char := range content {
		if char == ' ' || char == ';' {
			return content[:i]
		}
	}
	return content
}

// Get a list of accepted MIME-data types from request headers, and a set of types a client refuses with q=0.
// A header may be repeated, and each value may list several media types.
func selectAcceptedType(header http.Header) (accepted []string, refused links.StringSet) {
	accepts := header.Values(HTTPHeaderAccept)
	accepted = make([]string, 0, len(accepts))
	refused = links.StringSet{}
	for _, a := range accepts {
		for _, mediaRange := range strings.Split(a, ",") {
			mediaRange = strings.TrimSpace(mediaRange)
			mediaType := strings.ToLower(filterFlags(mediaRange))
			if zeroQuality(mediaRange) {
				refused[mediaType] = struct{}{}
				continue
			}

			accepted = append(accepted, mediaType)
		}
	}

	return accepted, refused
}

// zeroQuality is true if the media range has `q=0` parameter.
func zeroQuality(mediaRange string) bool {
	params := strings.Split(mediaRange, ";")
	for _, param := range params[1:] {
		key, value, ok := strings.Cut(param, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}

		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil && q == 0
	}

	return false
}

// acceptsJSON returns true if there is no Accept header or one of its media types can be satisfied with JSON.
// A JSON type refused explicitly is not produced even if a wildcard is accepted.
func acceptsJSON(header http.Header) bool {
	if len(header.Values(HTTPHeaderAccept)) == 0 {
		return true
	}

	accepted, refused := selectAcceptedType(header)
	for _, produced := range []string{MimeTypeJSON, MimeTypeHALJSON} {
		if refused.Has(produced) {
			continue
		}

		for _, contentType := range accepted {
			switch contentType {
			case "", "*/*", "application/*", produced:
				return true
			}
		}
	}

	return false
}

// responseHandler is type to represent functions that can process response object
type responseHandler func(code int, obj any)

// MarshalResponse marshals response object with the marshaler selected by [ContentTypeAPI].
func MarshalResponse(ctx *gin.Context, code int, responseValue any) {
	marshalResponse := ctx.MustGet(responseMarshalKey).(responseHandler)
	marshalResponse(code, responseValue)
}

// AbortWithError terminates response-handling chain with an error, and returns provided HTTP error response to the client
func AbortWithError(ctx *gin.Context, code int, errValue error) {
	var apiError *ErrorResponse
	if errors.As(errValue, &apiError) {
		ctx.AbortWithStatusJSON(apiError.Code, apiError)
		return
	}

	ctx.AbortWithStatusJSON(code, NewErrorResponse(code, errValue))
}

// ContentTypeAPI returns middleware that checks [HTTPHeaderAccept] value of a request.
// The API only produces JSON, so the call is terminated with [http.StatusNotAcceptable] if a client does not accept it.
// Used in conjunction with [MarshalResponse].
func ContentTypeAPI() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !acceptsJSON(ctx.Request.Header) {
			AbortWithError(ctx, http.StatusNotAcceptable, ErrNotAcceptable)
			return
		}

		ctx.Set(responseMarshalKey, responseHandler(ctx.JSON))
		ctx.Next()
	}
}
