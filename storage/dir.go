package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir keeps each slot in a JSON file of a directory.
//
// Each file is replaced atomically, but not the set: a crash while Save
// renames the files may leave slots from two revisions. Use SQLite when the
// slots must change together.
type Dir struct {
	path string
}

// NewDir returns the slots of a directory, creating it if needed.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data directory: %w", err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) file(key string) string { return filepath.Join(d.path, key+".json") }

func (d *Dir) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(d.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Save writes every slot to a temporary file first, then renames them one by
// one. A failed write leaves the previous files in place.
func (d *Dir) Save(ctx context.Context, slots map[string][]byte) error {
	tmps := make(map[string]string, len(slots))
	defer func() {
		for _, tmp := range tmps {
			os.Remove(tmp)
		}
	}()
	for key, data := range slots {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := os.CreateTemp(d.path, key+"-*.tmp")
		if err != nil {
			return fmt.Errorf("cannot save %s: %w", key, err)
		}
		tmps[key] = f.Name()
		_, werr := f.Write(data)
		if err := errors.Join(werr, f.Close()); err != nil {
			return fmt.Errorf("cannot save %s: %w", key, err)
		}
	}
	var errs []error
	for key, tmp := range tmps {
		if err := os.Rename(tmp, d.file(key)); err != nil {
			errs = append(errs, fmt.Errorf("cannot save %s: %w", key, err))
			continue
		}
		delete(tmps, key)
	}
	return errors.Join(errs...)
}

func (d *Dir) Close() error { return nil }
