package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Record fetches the root document served at baseURL and stores it, indented, as a reference document at path.
// The document is checked the same way a loaded reference is, so a recorded reference is always usable.
func (v *Verifier) Record(ctx context.Context, baseURL, path string) error {
	body, err := v.Fetch(ctx, baseURL)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return fmt.Errorf("root document of %s is not JSON: %w", baseURL, err)
	}
	pretty.WriteByte('\n')

	if err := validateShape(v.schema, pretty.Bytes()); err != nil {
		return fmt.Errorf("root document of %s can not be used as reference: %w", baseURL, err)
	}

	if err := os.WriteFile(path, pretty.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write reference: %w", err)
	}

	return nil
}
