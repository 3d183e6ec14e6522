package pubgen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/a-h/templ"
	"github.com/spf13/afero"
)

// Render writes a templ component to w.
func Render(ctx context.Context, w io.Writer, cmp templ.Component) error {
	return cmp.Render(ctx, w)
}

// writeComponent renders cmp fully before writing, so a failed render never
// leaves a truncated page behind.
func writeComponent(ctx context.Context, fsys afero.Fs, outputDir, rel string, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := Render(ctx, &buf, cmp); err != nil {
		return fmt.Errorf("render %s: %w", rel, err)
	}
	return writeFile(fsys, outputDir, rel, buf.Bytes())
}

func writeFile(fsys afero.Fs, outputDir, rel string, data []byte) error {
	full := filepath.Join(outputDir, filepath.FromSlash(rel))
	if err := fsys.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", rel, err)
	}
	if err := afero.WriteFile(fsys, full, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}
