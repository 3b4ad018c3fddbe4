package verify

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ReferenceFileName is the conventional name of a root document reference.
const ReferenceFileName = "root-controller-result.json"

var errNoReferenceFS = errors.New("no file system to load reference from")

// RootDocumentSchema describes a root document: an object of relations, each holding a link with non-empty href.
var RootDocumentSchema = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"required": ["href"],
		"properties": {
			"href": {"type": "string", "minLength": 1},
			"templated": {"type": "boolean"}
		}
	}
}`)

// Reference locates a reference document in a file system, such as a directory or [embed.FS].
type Reference struct {
	FS   fs.FS
	Name string
}

// FileReference returns a reference to a document on disk.
func FileReference(path string) Reference {
	return Reference{
		FS:   os.DirFS(filepath.Dir(path)),
		Name: filepath.Base(path),
	}
}

func (r Reference) String() string {
	return r.Name
}

// Load reads the reference document and, unless schema is nil, checks its shape.
// All failures are reported as [ReferenceError].
func (r Reference) Load(schema gojsonschema.JSONLoader) ([]byte, error) {
	if r.FS == nil {
		return nil, &ReferenceError{Name: r.Name, Err: errNoReferenceFS}
	}

	data, err := fs.ReadFile(r.FS, r.Name)
	if err != nil {
		return nil, &ReferenceError{Name: r.Name, Err: err}
	}

	if err := validateShape(schema, data); err != nil {
		return nil, &ReferenceError{Name: r.Name, Err: err}
	}

	return data, nil
}

// validateShape checks a document against schema. Nil schema accepts any document.
func validateShape(schema gojsonschema.JSONLoader, data []byte) error {
	if schema == nil {
		return nil
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}

		return errors.New("invalid root document: " + strings.Join(problems, "; "))
	}

	return nil
}
