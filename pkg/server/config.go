package server

import (
	"time"

	"github.com/sre-norns/waymark/pkg/dbstore"
	"github.com/sre-norns/waymark/pkg/links"
)

// Config holds command line options of the API server.
type Config struct {
	Listen    string `help:"Address to listen on" default:":8080" env:"WAYMARK_LISTEN"`
	PublicURL string `help:"URL the server is reachable at. Hrefs of the root document are prefixed with it, relative hrefs are served if empty" env:"WAYMARK_PUBLIC_URL"`

	Registry    string   `help:"YAML file listing relations of the root document, compiled-in relations are used if not set" type:"existingfile" env:"WAYMARK_REGISTRY"`
	Features    []string `help:"Enabled features. Relations gated by other features are not exposed" default:"streams,tasks,schedules,apps" sep:"," env:"WAYMARK_FEATURES"`
	APIRevision int      `help:"API revision to advertise, overrides the registry file one" name:"api-revision"`

	ShutdownTimeout time.Duration `help:"Time to wait for in-flight requests on shutdown" default:"10s"`

	DB dbstore.Config `embed:"" prefix:"db-" help:"DB used to check server readiness. Set empty URL to run without DB"`
}

// EnabledFeatures returns set of features selected by the config.
func (c Config) EnabledFeatures() links.StringSet {
	return links.NewStringSet(c.Features...)
}

// BuildRegistry creates relation registry the server exposes. Configuration errors are all reported at once.
func (c Config) BuildRegistry() (*links.Registry, error) {
	spec := links.RegistrySpec{
		Relations: links.DefaultRelations(),
	}

	if c.Registry != "" {
		fromFile, err := links.LoadRegistryFile(c.Registry)
		if err != nil {
			return nil, err
		}
		spec = fromFile
	}

	if c.APIRevision != 0 {
		spec.Revision = c.APIRevision
	}

	return spec.Build(c.PublicURL, c.EnabledFeatures())
}
