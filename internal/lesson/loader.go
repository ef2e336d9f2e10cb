package lesson

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"gitcoach/internal/logging"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Load returns the full lesson set: the built-in lessons compiled into
// the binary, plus any lessons found in extraDirs. A directory lesson
// with the same name as a builtin replaces it, so users can iterate on
// shipped lessons without rebuilding.
//
// Files are parsed concurrently. A malformed lesson file never aborts the
// load; it is skipped and reported in the returned error alongside the
// lessons that did load.
func Load(ctx context.Context, extraDirs ...string) ([]Lesson, error) {
	byName := make(map[string]Lesson)
	var mu sync.Mutex
	var loadErrs []string

	add := func(l Lesson, origin string) {
		mu.Lock()
		defer mu.Unlock()
		if prev, ok := byName[l.Name]; ok {
			logging.Lesson("Lesson %q from %s replaces %q", l.Name, origin, prev.Title)
		}
		byName[l.Name] = l
	}
	report := func(path string, err error) {
		logging.Lesson("Skipping lesson file %s: %v", path, err)
		mu.Lock()
		defer mu.Unlock()
		loadErrs = append(loadErrs, fmt.Sprintf("%s: %v", path, err))
	}

	// Builtins first, so directory lessons win the name collision.
	if err := loadBuiltins(add); err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, dir := range extraDirs {
		paths, err := lessonFiles(dir)
		if err != nil {
			report(dir, err)
			continue
		}
		for _, path := range paths {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				data, err := os.ReadFile(path)
				if err != nil {
					report(path, err)
					return nil
				}
				l, err := parse(data)
				if err != nil {
					report(path, err)
					return nil
				}
				add(l, path)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lessons := make([]Lesson, 0, len(byName))
	for _, l := range byName {
		lessons = append(lessons, l)
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Name < lessons[j].Name })

	if len(loadErrs) > 0 {
		sort.Strings(loadErrs)
		return lessons, fmt.Errorf("some lesson files were skipped:\n  %s", strings.Join(loadErrs, "\n  "))
	}
	return lessons, nil
}

// Find returns the named lesson from a loaded set.
func Find(lessons []Lesson, name string) (Lesson, bool) {
	for _, l := range lessons {
		if l.Name == name {
			return l, true
		}
	}
	return Lesson{}, false
}

func loadBuiltins(add func(Lesson, string)) error {
	entries, err := fs.Glob(builtinFS, "builtin/*.yaml")
	if err != nil {
		return err
	}
	for _, path := range entries {
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read builtin lesson %s: %w", path, err)
		}
		l, err := parse(data)
		if err != nil {
			// Builtins ship with the binary; a broken one is a build defect.
			return fmt.Errorf("builtin lesson %s: %w", path, err)
		}
		add(l, "builtin")
	}
	return nil
}

func lessonFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}

func parse(data []byte) (Lesson, error) {
	var l Lesson
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Lesson{}, fmt.Errorf("parse: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Lesson{}, err
	}
	return l, nil
}
