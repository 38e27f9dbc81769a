package database

import (
	"fmt"
	"sort"
	"sync"

	"github.com/siherrmann/dataManager/model"
)

// RowDBHandlerMemory implements RowDBHandlerFunctions in process memory.
// It is used for local development and tests.
type RowDBHandlerMemory struct {
	mu     sync.RWMutex
	tables map[string][]model.Row
}

// NewRowDBHandlerMemory creates an empty in-memory row store.
func NewRowDBHandlerMemory() *RowDBHandlerMemory {
	return &RowDBHandlerMemory{
		tables: map[string][]model.Row{},
	}
}

func (r *RowDBHandlerMemory) CheckTableExistance() (bool, error) {
	return true, nil
}

func (r *RowDBHandlerMemory) CreateTable() error {
	return nil
}

func (r *RowDBHandlerMemory) DropTable() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables = map[string][]model.Row{}
	return nil
}

func (r *RowDBHandlerMemory) SelectAllTables() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make([]string, 0, len(r.tables))
	for name := range r.tables {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	return tables, nil
}

func (r *RowDBHandlerMemory) SelectAllRows(table string) ([]model.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, ok := r.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	clones := model.CloneRows(rows)
	if clones == nil {
		clones = []model.Row{}
	}
	return clones, nil
}

func (r *RowDBHandlerMemory) SelectRow(table string, id string) (model.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index := r.indexOf(table, id)
	if index < 0 {
		return model.Row{}, fmt.Errorf("%w: no row with id %s in table %s", ErrRowNotFound, id, table)
	}
	return r.tables[table][index].Clone(), nil
}

func (r *RowDBHandlerMemory) InsertRow(table string, row model.Row) (model.Row, error) {
	canonical, err := canonicalRow(table, row.ID(), row)
	if err != nil {
		return model.Row{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(table, canonical.ID()) >= 0 {
		return model.Row{}, fmt.Errorf("%w: %s in table %s", ErrDuplicateRow, canonical.ID(), table)
	}

	r.tables[table] = append(r.tables[table], canonical)
	return canonical.Clone(), nil
}

func (r *RowDBHandlerMemory) UpdateRow(table string, id string, row model.Row) (model.Row, error) {
	canonical, err := canonicalRow(table, id, row)
	if err != nil {
		return model.Row{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	index := r.indexOf(table, id)
	if index < 0 {
		return model.Row{}, fmt.Errorf("%w: no row with id %s in table %s", ErrRowNotFound, id, table)
	}

	r.tables[table][index] = canonical
	return canonical.Clone(), nil
}

func (r *RowDBHandlerMemory) DeleteRow(table string, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := r.indexOf(table, id)
	if index < 0 {
		return fmt.Errorf("%w: no row with id %s in table %s", ErrRowNotFound, id, table)
	}

	rows := r.tables[table]
	r.tables[table] = append(rows[:index:index], rows[index+1:]...)
	return nil
}

func (r *RowDBHandlerMemory) ResolveTable(id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := []string{}
	for name := range r.tables {
		if r.indexOf(name, id) >= 0 {
			found = append(found, name)
		}
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: no row with id %s", ErrRowNotFound, id)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousRow, id)
	}
}

func (r *RowDBHandlerMemory) ReplaceRows(table string, rows []model.Row) error {
	if table == "" {
		return fmt.Errorf("%w: table name is required", ErrInvalidRow)
	}

	replaced := make([]model.Row, 0, len(rows))
	seen := map[string]bool{}
	for _, row := range rows {
		canonical, err := canonicalRow(table, row.ID(), row)
		if err != nil {
			return err
		}
		if seen[canonical.ID()] {
			return fmt.Errorf("%w: %s in table %s", ErrDuplicateRow, canonical.ID(), table)
		}
		seen[canonical.ID()] = true
		replaced = append(replaced, canonical)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables[table] = replaced
	return nil
}

// indexOf must be called with r.mu held.
func (r *RowDBHandlerMemory) indexOf(table string, id string) int {
	for i, row := range r.tables[table] {
		if row.ID() == id {
			return i
		}
	}
	return -1
}
