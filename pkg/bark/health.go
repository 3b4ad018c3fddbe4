package bark

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is implemented by dependencies that can report if they are able to serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthAPI returns a handler reporting readiness of the server dependencies as [StatusResponse].
// Server is ready only if all dependencies respond to ping, otherwise [http.StatusServiceUnavailable] is returned.
func HealthAPI(dependencies ...Pinger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		for _, dep := range dependencies {
			if err := dep.Ping(ctx.Request.Context()); err != nil {
				log.Printf("[%s] readiness check failed: %v", RequestID(ctx), err)
				ctx.JSON(http.StatusServiceUnavailable, StatusResponse{Ready: false})
				return
			}
		}

		ctx.JSON(http.StatusOK, StatusResponse{Ready: true})
	}
}
