// Package gauges loads gauge solutions from a run's output directory.
package gauges

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/storm-surge-setup/internal/domain"
)

// FileStore implements domain.GaugeSource over gaugeNNNNN.txt files.
type FileStore struct {
	dir string
}

// NewFileStore creates a store reading from a run's output directory.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Gauge reads and parses one gauge file.
func (s *FileStore) Gauge(ctx context.Context, id int) (domain.GaugeSolution, error) {
	if err := ctx.Err(); err != nil {
		return domain.GaugeSolution{}, err
	}
	name := domain.GaugeFileName(id)
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.GaugeSolution{}, fmt.Errorf("gauge %d: %w", id, domain.ErrGaugeNotFound)
	}
	if err != nil {
		return domain.GaugeSolution{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	g, err := domain.ReadGaugeSolution(f, name)
	if err != nil {
		return domain.GaugeSolution{}, err
	}
	if g.ID == 0 {
		g.ID = id
	}
	return g, nil
}

// Stamp identifies the contents of a gauge file by size and modification time.
type Stamp struct {
	Size    int64
	ModTime time.Time
}

func (s Stamp) matches(o Stamp) bool {
	return s.Size == o.Size && s.ModTime.Equal(o.ModTime)
}

// Stamp stats gauge id's file without reading it.
func (s *FileStore) Stamp(id int) (Stamp, error) {
	name := domain.GaugeFileName(id)
	info, err := os.Stat(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return Stamp{}, fmt.Errorf("gauge %d: %w", id, domain.ErrGaugeNotFound)
	}
	if err != nil {
		return Stamp{}, fmt.Errorf("stat %s: %w", name, err)
	}
	return Stamp{Size: info.Size(), ModTime: info.ModTime()}, nil
}
