package catalog

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/sushant-115/modsort/pkg/logger"
)

// Registry assigns table ids and keeps the table records. Ids are handed out
// in increasing order starting at 1 and are never reused, even after a drop.
type Registry struct {
	mu     sync.RWMutex
	byID   map[uint32]*Table
	byName map[string]*Table
	nextID uint32
	logger *zap.Logger
}

// NewRegistry creates an empty registry. A nil logger disables logging.
func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		byID:   make(map[uint32]*Table),
		byName: make(map[string]*Table),
		nextID: 1,
		logger: logger.Named(log, "catalog"),
	}
}

// Create registers a new table. collator may be nil; it is rejected for
// column stores because record numbers always compare numerically.
func (r *Registry) Create(name string, kind StorageKind, collator KeyOrder) (*Table, error) {
	if kind != RowStore && kind != ColumnStore {
		return nil, fmt.Errorf("create table %q: %w", name, ErrInvalidStorageKind)
	}
	if collator != nil && kind != RowStore {
		return nil, fmt.Errorf("create table %q: %w", name, ErrCollatorOnColumn)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("create table %q: %w", name, ErrTableExists)
	}
	if r.nextID == math.MaxUint32 {
		return nil, fmt.Errorf("create table %q: %w", name, ErrTableIDsExhausted)
	}

	t := NewTable(r.nextID, name, kind, collator)
	r.nextID++
	r.byID[t.id] = t
	r.byName[name] = t

	r.logger.Debug("table created",
		zap.String("table", name),
		zap.Uint32("id", t.id),
		zap.Stringer("kind", kind),
		zap.Bool("collator", collator != nil))
	return t, nil
}

// Lookup returns the table with the given id.
func (r *Registry) Lookup(id uint32) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("table id %d: %w", id, ErrTableNotFound)
	}
	return t, nil
}

// ByName returns the table registered under name.
func (r *Registry) ByName(name string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("table %q: %w", name, ErrTableNotFound)
	}
	return t, nil
}

// Drop removes a table from the registry. Operations still holding the table
// keep a valid record; its id is not handed out again.
func (r *Registry) Drop(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("drop table %q: %w", name, ErrTableNotFound)
	}
	delete(r.byName, name)
	delete(r.byID, t.id)
	r.logger.Debug("table dropped", zap.String("table", name), zap.Uint32("id", t.id))
	return nil
}

// Tables lists the registered tables by ascending id.
func (r *Registry) Tables() []*Table {
	r.mu.RLock()
	tables := make([]*Table, 0, len(r.byID))
	for _, t := range r.byID {
		tables = append(tables, t)
	}
	r.mu.RUnlock()

	sort.Slice(tables, func(i, j int) bool {
		return tables[i].id < tables[j].id
	})
	return tables
}
