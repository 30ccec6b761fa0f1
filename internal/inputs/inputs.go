// Package inputs resolves command-line arguments into the ordered list of
// audio files an export run processes.
package inputs

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fpexport/internal/config"
)

// listFileExt marks arguments that name a text file of audio paths.
const listFileExt = ".txt"

// Options controls how arguments are expanded.
type Options struct {
	// Extensions selects files when a directory is given. Lowercase, with dot.
	Extensions []string
}

// Result is the outcome of resolving arguments.
type Result struct {
	// Paths are absolute and in argument order. A file named twice appears
	// twice and is exported twice.
	Paths []string
	// Missing lists arguments (or list file entries) that do not exist.
	Missing []string
}

// Resolve expands args in order. A ".txt" argument is read as a list of paths
// (one per line, blank lines and "#" comments ignored, relative entries
// resolved against the list file's directory). A directory expands to the
// audio files beneath it, sorted by path. Anything else is taken as a file.
func Resolve(args []string, opts Options) (Result, error) {
	r := resolver{
		exts: make(map[string]struct{}, len(opts.Extensions)),
	}
	for _, ext := range opts.Extensions {
		r.exts[strings.ToLower(ext)] = struct{}{}
	}
	for _, arg := range args {
		if err := r.add(arg, "", true); err != nil {
			return Result{}, err
		}
	}
	return r.result, nil
}

type resolver struct {
	exts   map[string]struct{}
	result Result
}

func (r *resolver) add(arg, baseDir string, allowList bool) error {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil
	}
	if baseDir != "" && !filepath.IsAbs(arg) && !strings.HasPrefix(arg, "~") {
		arg = filepath.Join(baseDir, arg)
	}
	path, err := config.ExpandPath(arg)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.result.Missing = append(r.result.Missing, path)
			return nil
		}
		return fmt.Errorf("inspect path %q: %w", path, err)
	}

	switch {
	case info.IsDir():
		return r.addDir(path)
	case allowList && strings.EqualFold(filepath.Ext(path), listFileExt):
		return r.addList(path)
	default:
		r.append(path)
		return nil
	}
}

func (r *resolver) addDir(dir string) error {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := r.exts[strings.ToLower(filepath.Ext(d.Name()))]; ok {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan directory %q: %w", dir, err)
	}
	sort.Strings(found)
	for _, path := range found {
		r.append(path)
	}
	return nil
}

func (r *resolver) addList(listPath string) error {
	file, err := os.Open(listPath)
	if err != nil {
		return fmt.Errorf("open list file: %w", err)
	}
	defer file.Close()

	baseDir := filepath.Dir(listPath)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Nested list files are treated as plain entries.
		if err := r.add(line, baseDir, false); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read list file %s: %w", listPath, err)
	}
	return nil
}

func (r *resolver) append(path string) {
	r.result.Paths = append(r.result.Paths, path)
}
