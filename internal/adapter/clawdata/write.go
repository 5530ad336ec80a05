package clawdata

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/couchcryptid/storm-surge-setup/internal/domain"
)

// Write renders final and writes every data file into dir. It returns the
// rendered contents keyed by file name.
func Write(dir string, final domain.FinalRunData) (map[string][]byte, error) {
	files, err := Render(final)
	if err != nil {
		return nil, err
	}
	if err := WriteAll(dir, files); err != nil {
		return nil, err
	}
	return files, nil
}

// WriteAll writes each file through a temp file in dir that is renamed into
// place. Files are written in name order. If any write fails, files this call
// created are removed; files it replaced keep their new contents.
func WriteAll(dir string, files map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	var created []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		_, statErr := os.Stat(path)
		if err := writeAtomic(path, files[name]); err != nil {
			for _, c := range created {
				_ = os.Remove(c)
			}
			return fmt.Errorf("write %s: %w", name, err)
		}
		if os.IsNotExist(statErr) {
			created = append(created, path)
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
