// Package shadersrc loads vertex/fragment source pairs and watches them for edits.
//
// A program named "cubes" lives in <dir>/cubes/vertex.glsl and
// <dir>/cubes/fragment.glsl. Programs missing on disk fall back to the copies
// embedded in the binary.
package shadersrc

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"learn-gl/internal/graphics"
)

const (
	VertexFile   = "vertex.glsl"
	FragmentFile = "fragment.glsl"
)

//go:embed shaders
var embedded embed.FS

// debounce collapses the burst of events editors emit for one save.
const debounce = 100 * time.Millisecond

// Loader reads shader sources for named programs.
type Loader struct {
	// Dir is the on-disk root; empty means embedded only.
	Dir    string
	Logger *slog.Logger
}

func (l Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// Names lists the embedded programs.
func Names() []string {
	entries, err := embedded.ReadDir("shaders")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// Load returns the sources for program name, preferring files under Dir.
func (l Loader) Load(name string) (graphics.Sources, error) {
	if l.Dir != "" {
		src, err := readPair(os.DirFS(filepath.Join(l.Dir, name)), ".")
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return graphics.Sources{}, err
		}
		l.logger().Debug("shader sources not on disk, using embedded copy", "program", name, "dir", l.Dir)
	}
	src, err := readPair(embedded, "shaders/"+name)
	if err != nil {
		return graphics.Sources{}, fmt.Errorf("no shader sources for %q: %w", name, err)
	}
	return src, nil
}

func readPair(fsys fs.FS, dir string) (graphics.Sources, error) {
	vertex, err := fs.ReadFile(fsys, path.Join(dir, VertexFile))
	if err != nil {
		return graphics.Sources{}, fmt.Errorf("could not read vertex shader file: %w", err)
	}
	fragment, err := fs.ReadFile(fsys, path.Join(dir, FragmentFile))
	if err != nil {
		return graphics.Sources{}, fmt.Errorf("could not read fragment shader file: %w", err)
	}
	return graphics.Sources{Vertex: string(vertex), Fragment: string(fragment)}, nil
}

// Export writes the embedded sources for name into Dir so they can be edited.
// Existing files are left alone.
func (l Loader) Export(name string) error {
	if l.Dir == "" {
		return errors.New("no shader directory configured")
	}
	src, err := readPair(embedded, "shaders/"+name)
	if err != nil {
		return fmt.Errorf("no embedded shader %q: %w", name, err)
	}
	dir := filepath.Join(l.Dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for file, body := range map[string]string{VertexFile: src.Vertex, FragmentFile: src.Fragment} {
		dst := filepath.Join(dir, file)
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		if err := os.WriteFile(dst, []byte(body), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// Watch reloads program name from Dir whenever one of its files changes and
// delivers the new sources on the returned channel. Only the latest pending
// pair is kept. The watcher stops and the channel closes when ctx is done.
//
// Watch never touches GPU state; the render loop applies the sources.
func (l Loader) Watch(ctx context.Context, name string) (<-chan graphics.Sources, error) {
	if l.Dir == "" {
		return nil, errors.New("no shader directory configured")
	}
	dir := filepath.Join(l.Dir, name)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader watcher: %w", err)
	}
	// watch the directory: editors often replace files instead of writing them
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := make(chan graphics.Sources, 1)
	go l.watch(ctx, watcher, dir, out)
	return out, nil
}

func (l Loader) watch(ctx context.Context, watcher *fsnotify.Watcher, dir string, out chan graphics.Sources) {
	defer close(out)
	defer watcher.Close()

	log := l.logger().With("dir", dir)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			base := filepath.Base(ev.Name)
			if base != VertexFile && base != FragmentFile {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("shader watcher error", "error", err)

		case <-timer.C:
			src, err := readPair(os.DirFS(dir), ".")
			if err != nil {
				log.Warn("could not reload shader sources", "error", err)
				continue
			}
			// keep only the newest pair
			select {
			case <-out:
			default:
			}
			select {
			case out <- src:
				log.Debug("shader sources changed")
			case <-ctx.Done():
				return
			}
		}
	}
}
