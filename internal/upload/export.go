package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vvka-141/updater/pkg/updater"
)

// ArtifactExt is the extension of exported artifact files.
const ArtifactExt = ".enc"

// WriteDir writes each slot of batch to dir as "<field>_<name>.enc" and
// returns the written paths in slot order. dir is created if missing.
func WriteDir(dir string, batch *updater.Batch) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	paths := make([]string, 0, batch.Len())
	for _, slot := range batch.Slots() {
		path := filepath.Join(dir, FileName(slot))
		if err := os.WriteFile(path, slot.Artifact.Ciphertext, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// FileName returns the export file name for slot.
func FileName(slot updater.Slot) string {
	return slot.Field + "_" + safeName(slot.Artifact.Name) + ArtifactExt
}

func safeName(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	if strings.Trim(safe, ".") == "" {
		return "artifact"
	}
	return safe
}
