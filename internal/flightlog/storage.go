package flightlog

import (
	"fmt"
	"os"
	"path/filepath"
)

// LineWriter is an open append-only artifact on the storage medium.
type LineWriter interface {
	WriteLine(text string) error
	Close() error
}

// Storage abstracts the persistent medium (SD card on the flight hardware,
// a directory on disk here). OpenAppend fails when the medium is not ready;
// that failure degrades logging only and never the mission.
type Storage interface {
	OpenAppend(name string) (LineWriter, error)
}

// DirStorage stores log artifacts as files under a directory.
type DirStorage struct {
	Dir string
}

func NewDirStorage(dir string) (*DirStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("flightlog: prepare %s: %w", dir, err)
	}
	return &DirStorage{Dir: dir}, nil
}

func (s *DirStorage) OpenAppend(name string) (LineWriter, error) {
	f, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("flightlog: open %s: %w", name, err)
	}
	return &fileLine{f: f}, nil
}

type fileLine struct {
	f *os.File
}

func (w *fileLine) WriteLine(text string) error {
	_, err := w.f.WriteString(text + "\n")
	return err
}

func (w *fileLine) Close() error {
	return w.f.Close()
}
