// Package file implements the grid store over a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Store keeps the whole document in one file. A process-wide mutex serializes writers;
// readers rely on the atomic rename and never take the lock.
type Store struct {
	path    string
	metrics Metrics

	mu sync.Mutex
}

// NewStore returns a store for the document at path.
func NewStore(path string, metrics Metrics) (*Store, error) {
	if path == "" {
		return nil, errors.New("grid document path is required")
	}
	if metrics == nil {
		return nil, errors.New("file store metrics is required")
	}
	return &Store{path: path, metrics: metrics}, nil
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Init creates a fresh document of total blocks when none exists. An existing document
// must hold exactly total blocks; total <= 0 accepts whatever size is stored.
func (s *Store) Init(ctx context.Context, total int) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("init", err, started)
	}()
	if err = ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if errors.Is(err, fs.ErrNotExist) {
		if total <= 0 {
			return fmt.Errorf("grid document %s does not exist and no size was given", s.path)
		}
		if err = os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return fmt.Errorf("create grid directory: %w", err)
		}
		return s.write(grid.NewDocument(total))
	}
	if err != nil {
		return err
	}
	if total > 0 && len(doc.Grid) != total {
		return fmt.Errorf("grid document holds %d blocks, configured size is %d", len(doc.Grid), total)
	}
	return nil
}

// Load reads and validates the current document.
func (s *Store) Load(ctx context.Context) (doc *grid.Document, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("load", err, started)
	}()
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	return s.read()
}

// Save validates doc and atomically replaces the document.
func (s *Store) Save(ctx context.Context, doc *grid.Document) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("save", err, started)
	}()
	if err = ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(doc)
}

// Mutate loads the document, applies fn to the block at index, validates and saves,
// all under the writer lock. It returns a copy of the updated block.
func (s *Store) Mutate(ctx context.Context, index int, fn grid.TransitionFunc) (block grid.Block, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("mutate", err, started)
	}()
	if err = ctx.Err(); err != nil {
		return grid.Block{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return grid.Block{}, err
	}
	if index < 0 || index >= len(doc.Grid) {
		return grid.Block{}, &grid.OutOfRangeError{Index: index, Total: len(doc.Grid)}
	}

	b := doc.Grid[index].Clone()
	if err = fn(&b); err != nil {
		return grid.Block{}, err
	}
	if b.Index != index {
		return grid.Block{}, fmt.Errorf("transition moved block %d to index %d", index, b.Index)
	}
	if err = b.Validate(len(doc.Grid)); err != nil {
		return grid.Block{}, fmt.Errorf("transition broke block invariants: %w", err)
	}

	doc.Grid[index] = b
	if err = s.write(doc); err != nil {
		return grid.Block{}, err
	}
	return b.Clone(), nil
}

func (s *Store) read() (*grid.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read grid document: %w", err)
	}
	return grid.Decode(data)
}

// write replaces the document via a temp file in the same directory and a rename,
// so readers see either the previous or the new document.
func (s *Store) write(doc *grid.Document) error {
	data, err := grid.Encode(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp document: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp document: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp document: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp document: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace grid document: %w", err)
	}
	syncDir(dir)
	return nil
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// UpgradeReport counts the legacy shapes found by Upgrade.
type UpgradeReport struct {
	Blocks        int
	MissingStatus int
	MissingOwner  int
	MissingDugBy  int
	MissingVisual int
}

// Changed reports whether rewriting the document would add any field.
func (r UpgradeReport) Changed() bool {
	return r.MissingStatus+r.MissingOwner+r.MissingDugBy+r.MissingVisual > 0
}

// Upgrade rewrites the document in the canonical schema, filling status, owner, dugBy
// and visual where older writers left them out. It is an offline operation: the server
// must not be running against the same file. With dryRun the file is left untouched.
func (s *Store) Upgrade(ctx context.Context, dryRun bool) (report UpgradeReport, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("upgrade", err, started)
	}()
	if err = ctx.Err(); err != nil {
		return report, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return report, fmt.Errorf("read grid document: %w", err)
	}
	report, err = inspect(data)
	if err != nil {
		return report, err
	}
	doc, err := grid.Decode(data)
	if err != nil {
		return report, err
	}
	if dryRun || !report.Changed() {
		return report, nil
	}
	return report, s.write(doc)
}

func inspect(data []byte) (UpgradeReport, error) {
	var raw struct {
		Grid []map[string]json.RawMessage `json:"grid"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return UpgradeReport{}, &grid.CorruptStateError{Index: -1, Reason: "malformed document", Err: err}
	}

	report := UpgradeReport{Blocks: len(raw.Grid)}
	for _, fields := range raw.Grid {
		if _, ok := fields["status"]; !ok {
			report.MissingStatus++
		}
		if _, ok := fields["visual"]; !ok {
			report.MissingVisual++
		}
		owner, dugBy := present(fields["owner"]), present(fields["dugBy"])
		if dugBy && !owner {
			report.MissingOwner++
		}
		if owner && !dugBy {
			report.MissingDugBy++
		}
	}
	return report, nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null" && string(raw) != `""`
}
