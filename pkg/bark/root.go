package bark

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sre-norns/waymark/pkg/links"
)

// RootProducer is a source of the API root document.
type RootProducer interface {
	BuildRootDocument() links.RootDocument
}

// RootAPI returns a handler serving the root document of producer.
// The document is serialized once, so serialization problems are reported here rather than on a request.
// Every response is identical: status 200, JSON body, and [HTTPHeaderAPIRevision] header.
// Use after [ContentTypeAPI] middleware to reject clients that don't accept JSON.
func RootAPI(producer RootProducer, revision int) (gin.HandlerFunc, error) {
	body, err := json.Marshal(producer.BuildRootDocument())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize root document: %w", err)
	}

	apiRevision := strconv.Itoa(revision)
	return func(ctx *gin.Context) {
		ctx.Header(HTTPHeaderAPIRevision, apiRevision)
		ctx.Data(http.StatusOK, MimeTypeJSON, body)
	}, nil
}
