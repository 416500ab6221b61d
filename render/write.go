package render

import (
	"bytes"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/glbind/errors"
)

// Stats counts the outcome of a Write.
type Stats struct {
	Written   int
	Unchanged int
}

// Write stores files under dir. Files whose content is already on disk are left
// untouched, so regenerating an unchanged registry does not bump timestamps.
func Write(dir string, files []File) (Stats, error) {
	var st Stats
	for _, f := range files {
		target := filepath.Join(dir, filepath.FromSlash(f.Path))
		if old, err := os.ReadFile(target); err == nil && bytes.Equal(old, f.Content) {
			st.Unchanged++
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return st, errors.Load(errors.PhaseWrite, "create "+filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, f.Content, 0o644); err != nil {
			return st, errors.Load(errors.PhaseWrite, "write "+target, err)
		}
		Logger().Debug("wrote file", zap.String("path", f.Path), zap.String("module", f.Module))
		st.Written++
	}
	return st, nil
}
