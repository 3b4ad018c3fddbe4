// Package server wires the API root document and service endpoints into an HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sre-norns/waymark/pkg/bark"
	"github.com/sre-norns/waymark/pkg/dbstore"
	"github.com/sre-norns/waymark/pkg/links"
)

const readHeaderTimeout = 10 * time.Second

var ErrNoRegistry = errors.New("no relation registry")

// RouterOptions selects what [NewRouter] serves.
type RouterOptions struct {
	Registry  *links.Registry
	Features  links.StringSet
	PublicURL string

	// Metrics, if not nil, records requests and is exposed at /metrics
	Metrics *bark.Metrics
	// Dependencies that must be ready for the server to be ready
	Dependencies []bark.Pinger
}

// NewRouter creates a gin engine serving:
//   - GET / root document
//   - GET /about server description
//   - GET /version build version
//   - GET /healthz readiness
//   - GET /metrics if metrics are enabled
func NewRouter(options RouterOptions) (*gin.Engine, error) {
	if options.Registry == nil {
		return nil, ErrNoRegistry
	}

	rootAPI, err := bark.RootAPI(options.Registry, options.Registry.Revision())
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(bark.RequestIDAPI(), gin.Logger(), gin.Recovery())
	if options.Metrics != nil {
		router.Use(options.Metrics.API())
		router.GET("/metrics", options.Metrics.Handler())
	}

	router.GET("/", bark.ContentTypeAPI(), rootAPI)

	about := bark.NewAboutResponse(
		options.Registry.Revision(),
		knownFeatures(options.Registry, options.Features),
		options.Features,
		bark.WithLink("self", links.Link{Href: strings.TrimSuffix(options.PublicURL, "/") + "/about"}),
	)
	router.GET("/about", bark.ContentTypeAPI(), func(ctx *gin.Context) {
		bark.MarshalResponse(ctx, http.StatusOK, about)
	})

	version := bark.NewVersionResponse()
	router.GET("/version", bark.ContentTypeAPI(), func(ctx *gin.Context) {
		bark.MarshalResponse(ctx, http.StatusOK, version)
	})

	router.GET("/healthz", bark.HealthAPI(options.Dependencies...))

	return router, nil
}

// knownFeatures lists default features, enabled ones and features the registry refers to.
func knownFeatures(registry *links.Registry, enabled links.StringSet) []string {
	result := links.DefaultFeatures()
	for feature := range enabled {
		result[feature] = struct{}{}
	}
	for _, rel := range registry.Relations() {
		if rel.Feature != "" {
			result[rel.Feature] = struct{}{}
		}
	}

	return result.Sorted()
}

// Run serves the API until ctx is canceled, then shuts the server down gracefully.
func Run(ctx context.Context, config Config) error {
	registry, err := config.BuildRegistry()
	if err != nil {
		return fmt.Errorf("invalid relation registry: %w", err)
	}

	var dependencies []bark.Pinger
	if config.DB.URL != "" {
		store, err := dbstore.Open(config.DB)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("DB is not ready: %w", err)
		}
		dependencies = append(dependencies, store)
	} else {
		log.Print("no DB configured, readiness only reflects the server itself")
	}

	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, err := NewRouter(RouterOptions{
		Registry:     registry,
		Features:     config.EnabledFeatures(),
		PublicURL:    config.PublicURL,
		Metrics:      bark.NewMetrics(metricsRegistry),
		Dependencies: dependencies,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              config.Listen,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("serving API revision %d with relations %v on %s", registry.Revision(), registry.BuildRootDocument().Relations(), config.Listen)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Print("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
