package pubgen

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/eringen/pubgen/internal/logfields"
)

// ScanContent discovers content files in the root content dir and its posts
// subdir. A missing or unreadable dir contributes no files. When both
// locations hold the same slug the posts entry wins and the root entry is
// dropped.
func ScanContent(fsys afero.Fs, dirs ContentDirs, logger *slog.Logger) []SourceFile {
	if logger == nil {
		logger = slog.Default()
	}
	root := listContent(fsys, dirs.Root, DirRoot, logger)
	posts := listContent(fsys, dirs.Posts, DirPosts, logger)

	shadowed := make(map[string]struct{}, len(posts))
	for _, f := range posts {
		shadowed[f.Slug()] = struct{}{}
	}
	files := make([]SourceFile, 0, len(root)+len(posts))
	for _, f := range root {
		if _, ok := shadowed[f.Slug()]; ok {
			logger.Debug("Root content shadowed by posts entry", logfields.Slug(f.Slug()), logfields.Path(f.FullPath))
			continue
		}
		files = append(files, f)
	}
	return append(files, posts...)
}

func listContent(fsys afero.Fs, dir string, kind Directory, logger *slog.Logger) []SourceFile {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		logger.Info("Content directory not found or empty", logfields.Path(dir), logfields.Error(err))
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []SourceFile
	for _, e := range entries {
		if !e.Mode().IsRegular() || !strings.HasSuffix(e.Name(), ContentExt) || e.Name() == ContentExt {
			continue
		}
		files = append(files, SourceFile{
			FileName:  e.Name(),
			FullPath:  filepath.Join(dir, e.Name()),
			Directory: kind,
		})
	}
	return files
}
