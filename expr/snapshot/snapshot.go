package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joshuapare/symkit/expr"
	"github.com/joshuapare/symkit/internal/logger"
	"github.com/joshuapare/symkit/internal/mmfile"
)

// Write writes a snapshot of the span v to w and returns the number of bytes
// written.
func Write(w io.Writer, v expr.View) (int64, error) {
	cells := v.Bytes()
	hdr, err := headerFor(cells).MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(hdr)
	if err != nil {
		return int64(n), fmt.Errorf("snapshot: write header: %w", err)
	}
	m, err := w.Write(cells)
	if err != nil {
		return int64(n + m), fmt.Errorf("snapshot: write cells: %w", err)
	}
	return int64(n + m), nil
}

// SaveOptions controls Save.
type SaveOptions struct {
	// Perm is the mode of a newly created file.
	// Default: 0o644
	Perm os.FileMode

	// FullSync asks for a flush to stable storage where the platform
	// distinguishes it from an ordinary fsync (F_FULLFSYNC on macOS).
	// Default: false
	FullSync bool
}

// DefaultSaveOptions returns sensible defaults for Save.
func DefaultSaveOptions() SaveOptions {
	return SaveOptions{Perm: 0o644}
}

// Save writes a snapshot of v to path atomically: the data goes to a
// temporary file in the same directory, is synced, and is renamed over path.
func Save(path string, v expr.View, opts SaveOptions) (err error) {
	if opts.Perm == 0 {
		opts.Perm = DefaultSaveOptions().Perm
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("snapshot: save %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = Write(tmp, v); err != nil {
		return err
	}
	if err = tmp.Chmod(opts.Perm); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", path, err)
	}
	if err = syncFile(tmp, opts.FullSync); err != nil {
		return fmt.Errorf("snapshot: sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", path, err)
	}
	logger.Debug("snapshot saved", "path", path, "cells", v.Span())
	return nil
}

// Decode parses a snapshot held in memory and returns a heap copy of its
// expression. The cells are validated as by expr.FromCells.
func Decode(data []byte) (expr.Expr, error) {
	_, cells, err := Split(data)
	if err != nil {
		return expr.Expr{}, err
	}
	return expr.FromCells(cells)
}

// Read reads a whole snapshot from r and decodes it.
func Read(r io.Reader) (expr.Expr, error) {
	var b bytes.Buffer
	if _, err := b.ReadFrom(r); err != nil {
		return expr.Expr{}, fmt.Errorf("snapshot: read: %w", err)
	}
	return Decode(b.Bytes())
}

// ErrClosed is returned by Close on a snapshot that was already closed.
var ErrClosed = errors.New("snapshot: already closed")

// Snapshot is an open, memory-mapped snapshot file. Views from Root point into
// the mapping and panic with an *expr.LifetimeError once Close has been called.
//
// A Snapshot may be read from many goroutines at once. Close must not race
// with readers.
type Snapshot struct {
	path   string
	header Header
	m      *mmfile.Mapping
	lease  *expr.Lease
	root   expr.View
}

// Open maps the snapshot at path and validates its header, checksum and cells.
// The cells are not copied.
func Open(path string) (*Snapshot, error) {
	m, err := mmfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	s, err := adopt(path, m)
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	return s, nil
}

func adopt(path string, m *mmfile.Mapping) (*Snapshot, error) {
	h, cells, err := Split(m.Data)
	if err != nil {
		return nil, err
	}
	lease := expr.NewLease(path)
	root, err := expr.ViewOf(cells, lease)
	if err != nil {
		return nil, err
	}
	stale := 0
	expr.StaleFlags(root, func(int, expr.View, expr.Flag, expr.Flag) { stale++ })
	if stale > 0 {
		// the mapping is read-only; readers call CheckedFlags where it matters
		logger.Warn("snapshot has stale flag caches", "path", path, "spans", stale)
	}
	logger.Debug("snapshot opened", "path", path, "cells", h.Cells, "mapped", m.Mapped)
	return &Snapshot{path: path, header: h, m: m, lease: lease, root: root}, nil
}

// Root returns the root span of the snapshot.
func (s *Snapshot) Root() expr.View {
	return s.root
}

// Header returns the parsed file header.
func (s *Snapshot) Header() Header {
	return s.header
}

// Path returns the file the snapshot was opened from.
func (s *Snapshot) Path() string {
	return s.path
}

// Copy returns a heap-owned copy of the root that outlives Close.
func (s *Snapshot) Copy() expr.Expr {
	return s.root.Copy()
}

// Close releases the lease and unmaps the file.
func (s *Snapshot) Close() error {
	if s.lease.Released() {
		return ErrClosed
	}
	s.lease.Release()
	return s.m.Close()
}
