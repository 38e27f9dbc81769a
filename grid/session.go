package grid

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/siherrmann/dataManager/model"
)

// Session keeps the local view of one active table in sync with a RowStore.
// It is safe for concurrent use. The state mutex is never held while a
// remote call is in flight.
type Session struct {
	store  RowStore
	logger *slog.Logger
	drafts *Drafts

	mu          sync.Mutex
	// fetchSeq tags every SelectTable, only the latest fetch may apply.
	fetchSeq    uint64
	// viewEpoch changes whenever activeTable and rows are replaced.
	viewEpoch   uint64
	activeTable string
	rows        []model.Row
	tables      []string
}

// NewSession creates a session without active table. A nil logger uses slog.Default().
func NewSession(store RowStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:  store,
		logger: logger,
		drafts: NewDrafts(),
	}
}

// Drafts returns the draft state of this session.
func (s *Session) Drafts() *Drafts {
	return s.drafts
}

// LoadTables fetches the table names offered for selection.
// On failure the list is cleared.
func (s *Session) LoadTables(ctx context.Context) error {
	tables, err := s.store.ListTables(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.tables = nil
		s.logger.Warn("Failed to load tables", "error", err)
		return err
	}
	s.tables = tables
	return nil
}

// Tables returns the result of the last successful LoadTables.
func (s *Session) Tables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := make([]string, len(s.tables))
	copy(tables, s.tables)
	return tables
}

// SelectTable makes name the active table and loads its rows. An empty name
// clears the selection without a remote call. If the fetch fails, active
// table and rows stay as they were. A fetch that completes after a newer
// selection was started is discarded with ErrSelectionSuperseded.
func (s *Session) SelectTable(ctx context.Context, name string) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	if name == "" {
		s.activeTable = ""
		s.rows = nil
		s.viewEpoch++
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	rows, err := s.store.FetchRows(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.fetchSeq {
		s.logger.Debug("Discarding superseded table fetch", "table", name)
		return fmt.Errorf("select table %s: %w", name, ErrSelectionSuperseded)
	}
	if err != nil {
		s.logger.Warn("Failed to fetch rows", "table", name, "error", err)
		return err
	}

	s.activeTable = name
	s.rows = model.CloneRows(rows)
	s.viewEpoch++
	return nil
}

// ActiveTable returns the selected table, empty if none is selected.
func (s *Session) ActiveTable() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.activeTable
}

// CurrentRows returns a copy of the row sequence, empty if no table is selected.
func (s *Session) CurrentRows() []model.Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := model.CloneRows(s.rows)
	if rows == nil {
		rows = []model.Row{}
	}
	return rows
}

// Columns returns the column identifiers of the current row sequence.
func (s *Session) Columns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Columns(s.rows)
}

// view returns the active table and the epoch of the rows shown for it.
// Results of remote writes are applied only while the epoch is unchanged.
func (s *Session) view() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.activeTable, s.viewEpoch
}

// AddRow submits the new-row draft to the active table and appends the
// canonical row returned by the store. The draft is kept as it is.
func (s *Session) AddRow(ctx context.Context) (model.Row, error) {
	table, epoch := s.view()
	if table == "" {
		s.logger.Warn("Failed to add row", "error", ErrNoTableSelected)
		return model.Row{}, ErrNoTableSelected
	}

	draft := s.drafts.NewDraft()
	created, err := s.store.CreateRow(ctx, table, draft.WithStringID(draft.ID()))
	if err != nil {
		s.logger.Warn("Failed to add row", "table", table, "id", draft.ID(), "error", err)
		return model.Row{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch == s.viewEpoch {
		s.rows = append(s.rows, created.Clone())
	}
	return created, nil
}

// SaveEdit submits the edit draft. On success the first row with the
// returned id is replaced and the edit draft is cleared, including an edit
// begun while the save was in flight. Without an edit in progress it does nothing.
func (s *Session) SaveEdit(ctx context.Context) (model.Row, error) {
	id, draft, ok := s.drafts.EditDraft()
	if !ok {
		return model.Row{}, nil
	}

	table, epoch := s.view()
	if table == "" {
		s.logger.Warn("Failed to save row", "id", id, "error", ErrNoTableSelected)
		return model.Row{}, ErrNoTableSelected
	}

	updated, err := s.store.UpdateRow(ctx, table, id, draft)
	if err != nil {
		s.logger.Warn("Failed to save row", "table", table, "id", id, "error", err)
		return model.Row{}, err
	}

	s.mu.Lock()
	if epoch == s.viewEpoch {
		s.replaceFirstLocked(updated)
	}
	s.mu.Unlock()

	s.drafts.ClearEditDraft()
	return updated, nil
}

// replaceFirstLocked must be called with s.mu held.
func (s *Session) replaceFirstLocked(updated model.Row) {
	for i, row := range s.rows {
		if row.ID() == updated.ID() {
			s.rows[i] = updated.Clone()
			return
		}
	}
	s.logger.Warn("Updated row matches no local row", "table", s.activeTable, "id", updated.ID())
}

// DeleteRow deletes the row with id from the active table and removes every
// local row carrying that id.
func (s *Session) DeleteRow(ctx context.Context, id string) error {
	table, epoch := s.view()
	if table == "" {
		s.logger.Warn("Failed to delete row", "id", id, "error", ErrNoTableSelected)
		return ErrNoTableSelected
	}

	err := s.store.DeleteRow(ctx, table, id)
	if err != nil {
		s.logger.Warn("Failed to delete row", "table", table, "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.viewEpoch {
		return nil
	}
	remaining := make([]model.Row, 0, len(s.rows))
	for _, row := range s.rows {
		if row.ID() != id {
			remaining = append(remaining, row)
		}
	}
	s.rows = remaining
	return nil
}
