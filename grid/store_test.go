package grid

import (
	"context"
	"sync"

	"github.com/siherrmann/dataManager/model"
)

// fakeStore is an in-process RowStore that records calls and can be told to fail.
type fakeStore struct {
	mu     sync.Mutex
	tables map[string][]model.Row
	calls  []string
	err    error
	// blocks holds per-table channels a FetchRows waits on before answering.
	blocks map[string]chan struct{}
	// updateResponse overrides the row returned by UpdateRow.
	updateResponse *model.Row
	// writeGate, when set, holds every write until it is closed. Each held
	// write is announced on writeStarted first.
	writeGate    chan struct{}
	writeStarted chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables: map[string][]model.Row{
			"users": {
				model.NewRow("id", "1", "name", "A"),
				model.NewRow("id", "2", "name", "B"),
			},
			"orders": {
				model.NewRow("id", "o1", "total", "10"),
			},
		},
		blocks: map[string]chan struct{}{},
	}
}

func (f *fakeStore) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)
	return f.err
}

// holdWrites makes writes wait until the returned release function is called.
func (f *fakeStore) holdWrites() (started <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writeGate = make(chan struct{})
	f.writeStarted = make(chan struct{}, 8)
	gate := f.writeGate
	return f.writeStarted, func() { close(gate) }
}

func (f *fakeStore) waitWrite() {
	f.mu.Lock()
	gate, started := f.writeGate, f.writeStarted
	f.mu.Unlock()
	if gate == nil {
		return
	}
	started <- struct{}{}
	<-gate
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

func (f *fakeStore) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.err = err
}

func (f *fakeStore) ListTables(ctx context.Context) ([]string, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return []string{"orders", "users"}, nil
}

func (f *fakeStore) FetchRows(ctx context.Context, table string) ([]model.Row, error) {
	f.mu.Lock()
	block := f.blocks[table]
	f.mu.Unlock()
	if block != nil {
		<-block
	}

	if err := f.record("fetch " + table); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	rows, ok := f.tables[table]
	if !ok {
		return nil, &NotFoundError{Op: "fetch rows", StatusCode: 404, Message: "table not found"}
	}
	return model.CloneRows(rows), nil
}

func (f *fakeStore) CreateRow(ctx context.Context, table string, row model.Row) (model.Row, error) {
	f.waitWrite()
	if err := f.record("create " + table); err != nil {
		return model.Row{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.tables[table] {
		if existing.ID() == row.ID() {
			return model.Row{}, &ValidationError{Op: "create row", StatusCode: 409, Message: "duplicate"}
		}
	}
	f.tables[table] = append(f.tables[table], row.Clone())
	return row.Clone(), nil
}

func (f *fakeStore) UpdateRow(ctx context.Context, table string, id string, row model.Row) (model.Row, error) {
	f.waitWrite()
	if err := f.record("update " + table + " " + id); err != nil {
		return model.Row{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateResponse != nil {
		return f.updateResponse.Clone(), nil
	}
	for i, existing := range f.tables[table] {
		if existing.ID() == id {
			f.tables[table][i] = row.WithStringID(id)
			return f.tables[table][i].Clone(), nil
		}
	}
	return model.Row{}, &NotFoundError{Op: "update row", StatusCode: 404, Message: "row not found"}
}

func (f *fakeStore) DeleteRow(ctx context.Context, table string, id string) error {
	f.waitWrite()
	if err := f.record("delete " + table + " " + id); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	rows := f.tables[table]
	for i, existing := range rows {
		if existing.ID() == id {
			f.tables[table] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Op: "delete row", StatusCode: 404, Message: "row not found"}
}
