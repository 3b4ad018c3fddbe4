package verify_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/sre-norns/waymark/pkg/links"
	"github.com/sre-norns/waymark/pkg/verify"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	server := newRootServer(t, links.DefaultRelations()...)
	path := filepath.Join(t.TempDir(), referenceName)

	verifier := verify.New(verify.WithClient(server.Client()))
	require.NoError(t, verifier.Record(context.Background(), server.URL, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{
  "streams": {
    "href": "http://localhost/streams"
  },
  "tasks": {
    "href": "http://localhost/tasks"
  },
  "jobs": {
    "href": "http://localhost/jobs"
  },
  "apps": {
    "href": "http://localhost/apps"
  },
  "about": {
    "href": "http://localhost/about"
  }
}
`, string(data))

	report, err := verifier.Verify(context.Background(), server.URL, verify.FileReference(path))
	require.NoError(t, err)
	require.True(t, report.Passed())
}

func TestRecord_Errors(t *testing.T) {
	testCases := map[string]struct {
		status int
		body   string
	}{
		"server-error": {status: http.StatusInternalServerError, body: `{}`},
		"not-json":     {status: http.StatusOK, body: `<html></html>`},
		"not-a-root":   {status: http.StatusOK, body: `{"streams": {"href": ""}}`},
		"array":        {status: http.StatusOK, body: `[]`},
	}

	for name, tc := range testCases {
		test := tc
		t.Run(name, func(t *testing.T) {
			server := staticServer(t, test.status, test.body)
			path := filepath.Join(t.TempDir(), referenceName)

			err := verify.New(verify.WithClient(server.Client())).Record(context.Background(), server.URL, path)
			require.Error(t, err)
			require.NoFileExists(t, path)
		})
	}
}
