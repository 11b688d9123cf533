// Package history keeps calculator history, settings, memory, and stored
// variables in a single JSON document.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calcexpr"
)

// DefaultLimit is the number of history entries kept when no limit is given.
const DefaultLimit = 50

// Setting keys with meaning to the calculator. Other keys are stored as given.
const (
	SettingAngleMode = "angleMode"
	SettingTheme     = "theme"
)

var (
	// ErrNotFound is returned when a history entry does not exist.
	ErrNotFound = errors.New("history entry not found")
	// ErrNotFinite is returned when a value to store is infinite or NaN,
	// which the JSON document cannot represent.
	ErrNotFinite = errors.New("value is not finite")
)

// Entry is one evaluated expression.
type Entry struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Result     float64   `json:"result"`
	Time       time.Time `json:"time"`
}

// document is the persisted form of a Store.
type document struct {
	History   []Entry            `json:"history"`
	Settings  map[string]string  `json:"settings"`
	Memory    float64            `json:"memory"`
	Variables map[string]float64 `json:"variables"`
}

// Store holds calculator state. It is safe for concurrent use. Every
// mutation is written through to the backing file, if there is one.
type Store struct {
	mu    sync.Mutex
	doc   document
	path  string
	limit int
	log   *zap.Logger
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLimit sets the maximum number of history entries.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens the store backed by the file at path, creating it on the first
// write if it does not exist. An empty path gives a store kept only in memory.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:  path,
		limit: DefaultLimit,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc = emptyDocument()
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info("starting new history", zap.String("path", path))
			return s, nil
		}
		return nil, fmt.Errorf("couldn't read history: %w", err)
	}
	if err := sonic.Unmarshal(b, &s.doc); err != nil {
		return nil, fmt.Errorf("couldn't decode history %s: %w", path, err)
	}
	if s.doc.Settings == nil {
		s.doc.Settings = make(map[string]string)
	}
	if s.doc.Variables == nil {
		s.doc.Variables = make(map[string]float64)
	}
	s.trim(&s.doc)
	s.log.Info("loaded history",
		zap.String("path", path),
		zap.Int("entries", len(s.doc.History)),
		zap.Int("variables", len(s.doc.Variables)),
	)
	return s, nil
}

func emptyDocument() document {
	return document{
		History:   []Entry{},
		Settings:  make(map[string]string),
		Variables: make(map[string]float64),
	}
}

// Add records an expression and its result as the newest entry.
func (s *Store) Add(expr string, result float64) (Entry, error) {
	if err := finite(result); err != nil {
		return Entry{}, err
	}
	e := Entry{
		ID:         uuid.NewString(),
		Expression: expr,
		Result:     result,
		Time:       s.now().UTC(),
	}
	err := s.update(func(d *document) {
		d.History = slices.Insert(d.History, 0, e)
		s.trim(d)
	})
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func finite(x float64) error {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return fmt.Errorf("%w: %g", ErrNotFinite, x)
	}
	return nil
}

// update applies f to the document and saves it. If the save fails, the
// document is left as it was before f.
func (s *Store) update(f func(d *document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := document{
		History:   slices.Clone(s.doc.History),
		Settings:  maps.Clone(s.doc.Settings),
		Memory:    s.doc.Memory,
		Variables: maps.Clone(s.doc.Variables),
	}
	f(&s.doc)
	if err := s.save(); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

// trim drops the oldest entries of d beyond the limit.
func (s *Store) trim(d *document) {
	if len(d.History) > s.limit {
		d.History = d.History[:s.limit]
	}
}

// List returns the history, newest first.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.doc.History)
}

// Delete removes one entry by ID.
func (s *Store) Delete(id string) error {
	found := false
	err := s.update(func(d *document) {
		k := slices.IndexFunc(d.History, func(e Entry) bool { return e.ID == id })
		if k < 0 {
			return
		}
		found = true
		d.History = slices.Delete(d.History, k, k+1)
	})
	if err == nil && !found {
		return ErrNotFound
	}
	return err
}

// Clear removes all history entries. Settings, memory, and variables remain.
func (s *Store) Clear() error {
	return s.update(func(d *document) { d.History = []Entry{} })
}

// Setting returns a stored setting.
func (s *Store) Setting(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc.Settings[key]
	return v, ok
}

// Settings returns a copy of all stored settings.
func (s *Store) Settings() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.doc.Settings)
}

// SetSetting stores a setting. The angle mode setting must name a valid
// angle mode and is stored in its canonical form.
func (s *Store) SetSetting(key, value string) error {
	if key == SettingAngleMode {
		m, err := calcexpr.ParseAngleMode(value)
		if err != nil {
			return err
		}
		value = m.String()
	}
	return s.update(func(d *document) { d.Settings[key] = value })
}

// AngleMode returns the stored angle mode, or def if none is stored.
func (s *Store) AngleMode(def calcexpr.AngleMode) calcexpr.AngleMode {
	v, ok := s.Setting(SettingAngleMode)
	if !ok {
		return def
	}
	m, err := calcexpr.ParseAngleMode(v)
	if err != nil {
		return def
	}
	return m
}

// Memory returns the memory register.
func (s *Store) Memory() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Memory
}

// SetMemory sets the memory register.
func (s *Store) SetMemory(v float64) error {
	if err := finite(v); err != nil {
		return err
	}
	return s.update(func(d *document) { d.Memory = v })
}

// Variables returns a copy of the stored variables.
func (s *Store) Variables() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.doc.Variables)
}

// SetVariable stores a variable.
func (s *Store) SetVariable(name string, v float64) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}
	if err := finite(v); err != nil {
		return err
	}
	return s.update(func(d *document) { d.Variables[name] = v })
}

// DeleteVariable removes a stored variable.
func (s *Store) DeleteVariable(name string) error {
	found := false
	err := s.update(func(d *document) {
		_, found = d.Variables[name]
		delete(d.Variables, name)
	})
	if err == nil && !found {
		return ErrNotFound
	}
	return err
}

// ValidName reports whether name can be bound as a variable: a run of ASCII
// letters that is not a constant or default function name.
func ValidName(name string) bool {
	if name == "" || name == "e" || name == "pi" {
		return false
	}
	for _, c := range name {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return !calcexpr.IsDefaultFunc(name)
}

// ExportText writes the history as numbered lines under a title, newest
// first.
func (s *Store) ExportText(w io.Writer) error {
	entries := s.List()
	bw := bufio.NewWriter(w)
	bw.WriteString("Calculator History\n==================\n\n")
	for i, e := range entries {
		bw.WriteString(strconv.Itoa(i + 1))
		bw.WriteString(". ")
		bw.WriteString(e.Expression)
		bw.WriteString(" = ")
		bw.WriteString(calcexpr.Format(e.Result))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ImportJSON replaces the history with the JSON array of entries in data.
// Entries without an ID get a new one. It returns the number of entries kept.
func (s *Store) ImportJSON(data []byte) (int, error) {
	var entries []Entry
	if err := sonic.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("couldn't decode history import: %w", err)
	}
	if entries == nil {
		return 0, errors.New("history import must be a JSON array")
	}
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
	}
	n := 0
	err := s.update(func(d *document) {
		d.History = entries
		s.trim(d)
		n = len(d.History)
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("imported history", zap.Int("entries", n))
	return n, nil
}

// save writes the document to the backing file. s.mu must be held.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	b, err := sonic.ConfigStd.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("couldn't encode history: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*")
	if err != nil {
		return fmt.Errorf("couldn't save history: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("couldn't save history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("couldn't save history: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("couldn't save history: %w", err)
	}
	s.log.Debug("saved history", zap.String("path", s.path), zap.Int("bytes", len(b)))
	return nil
}
