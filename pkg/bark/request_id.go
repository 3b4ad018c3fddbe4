package bark

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDAPI returns middleware that makes sure every request has an ID.
// ID given by a client in [HTTPHeaderRequestID] is kept, otherwise a new random ID is generated.
// The ID is echoed back to the client in the same header. See [RequestID] to access it from a handler.
func RequestIDAPI() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader(HTTPHeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx.Set(requestIDKey, requestID)
		ctx.Header(HTTPHeaderRequestID, requestID)
		ctx.Next()
	}
}

// RequestID returns ID of the request set by [RequestIDAPI] middleware, or empty string if there is none.
func RequestID(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}
