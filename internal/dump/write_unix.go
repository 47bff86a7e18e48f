//go:build !windows

package dump

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteFile encodes r into path, creating its directory. The file appears
// complete or not at all.
func WriteFile(path, format string, r RGB) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("dump %s: %w", path, err)
	}
	defer pending.Cleanup()

	if err := Encode(pending, format, r); err != nil {
		return fmt.Errorf("dump %s: %w", path, err)
	}
	return pending.CloseAtomicallyReplace()
}
