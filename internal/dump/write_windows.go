//go:build windows

package dump

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile encodes r into path, creating its directory.
func WriteFile(path, format string, r RGB) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, format, r); err != nil {
		f.Close()
		return fmt.Errorf("dump %s: %w", path, err)
	}
	return f.Close()
}
