package grid

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/siherrmann/dataManager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewSession(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func rowsEqual(t *testing.T, expected []model.Row, actual []model.Row) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.True(t, expected[i].Equal(actual[i]), "row %d: expected %v, got %v", i, expected[i].ToReadable(), actual[i].ToReadable())
	}
}

func TestSessionSelectTable(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty name clears without remote call", func(t *testing.T) {
		s, store := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))
		calls := store.callCount()

		require.NoError(t, s.SelectTable(ctx, ""))
		assert.Empty(t, s.CurrentRows())
		assert.Equal(t, "", s.ActiveTable())
		assert.Equal(t, calls, store.callCount())
	})

	t.Run("Success replaces rows in fetched order", func(t *testing.T) {
		s, _ := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))
		assert.Equal(t, "users", s.ActiveTable())
		rowsEqual(t, []model.Row{
			model.NewRow("id", "1", "name", "A"),
			model.NewRow("id", "2", "name", "B"),
		}, s.CurrentRows())
		assert.Equal(t, []string{"id", "name"}, s.Columns())
	})

	t.Run("Failure leaves selection unchanged", func(t *testing.T) {
		s, store := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))
		before := s.CurrentRows()

		store.fail(&NetworkError{Op: "fetch rows", Err: errors.New("connection refused")})
		err := s.SelectTable(ctx, "orders")
		var networkErr *NetworkError
		assert.ErrorAs(t, err, &networkErr)
		assert.Equal(t, "users", s.ActiveTable())
		rowsEqual(t, before, s.CurrentRows())
	})

	t.Run("Unknown table is not found", func(t *testing.T) {
		s, _ := newTestSession(t)
		err := s.SelectTable(ctx, "missing")
		var notFound *NotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.Empty(t, s.CurrentRows())
	})
}

func TestSessionSelectTableSuperseded(t *testing.T) {
	ctx := context.Background()

	t.Run("Late fetch does not overwrite newer selection", func(t *testing.T) {
		s, store := newTestSession(t)
		release := make(chan struct{})
		store.blocks["users"] = release

		done := make(chan error, 1)
		go func() {
			done <- s.SelectTable(ctx, "users")
		}()

		// wait until the users fetch is tagged
		require.Eventually(t, func() bool {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.fetchSeq == 1
		}, time.Second, time.Millisecond)

		require.NoError(t, s.SelectTable(ctx, "orders"))
		close(release)

		err := <-done
		assert.ErrorIs(t, err, ErrSelectionSuperseded)
		assert.Equal(t, "orders", s.ActiveTable())
		rowsEqual(t, []model.Row{model.NewRow("id", "o1", "total", "10")}, s.CurrentRows())
	})

	t.Run("Late fetch does not overwrite a clear", func(t *testing.T) {
		s, store := newTestSession(t)
		release := make(chan struct{})
		store.blocks["users"] = release

		done := make(chan error, 1)
		go func() {
			done <- s.SelectTable(ctx, "users")
		}()

		require.Eventually(t, func() bool {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.fetchSeq == 1
		}, time.Second, time.Millisecond)

		require.NoError(t, s.SelectTable(ctx, ""))
		close(release)

		assert.ErrorIs(t, <-done, ErrSelectionSuperseded)
		assert.Equal(t, "", s.ActiveTable())
		assert.Empty(t, s.CurrentRows())
	})
}

// selectAsync starts SelectTable in the background and returns its result channel.
func selectAsync(s *Session, name string) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- s.SelectTable(context.Background(), name)
	}()
	return done
}

func TestSessionWritesDuringSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("Failed reselect keeps in-flight add", func(t *testing.T) {
		s, store := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))

		started, release := store.holdWrites()
		s.Drafts().UpdateNewDraft("id", "3")
		added := make(chan error, 1)
		go func() {
			_, err := s.AddRow(ctx)
			added <- err
		}()
		<-started

		store.mu.Lock()
		delete(store.tables, "orders")
		store.mu.Unlock()
		var notFound *NotFoundError
		require.ErrorAs(t, s.SelectTable(ctx, "orders"), &notFound)

		release()
		require.NoError(t, <-added)
		assert.Equal(t, "users", s.ActiveTable())
		rows := s.CurrentRows()
		require.Len(t, rows, 3)
		assert.Equal(t, "3", rows[2].ID())
	})

	t.Run("Failed reselect keeps in-flight delete", func(t *testing.T) {
		s, store := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))

		started, release := store.holdWrites()
		deleted := make(chan error, 1)
		go func() {
			deleted <- s.DeleteRow(ctx, "2")
		}()
		<-started

		require.Error(t, s.SelectTable(ctx, "missing"))

		release()
		require.NoError(t, <-deleted)
		rowsEqual(t, []model.Row{model.NewRow("id", "1", "name", "A")}, s.CurrentRows())
	})

	t.Run("Failed reselect keeps in-flight save", func(t *testing.T) {
		s, store := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))
		s.Drafts().BeginEdit(model.NewRow("id", "1", "name", "A"))
		s.Drafts().UpdateEditDraft("1", "name", "Z")

		started, release := store.holdWrites()
		saved := make(chan error, 1)
		go func() {
			_, err := s.SaveEdit(ctx)
			saved <- err
		}()
		<-started

		require.Error(t, s.SelectTable(ctx, "missing"))

		release()
		require.NoError(t, <-saved)
		value, _ := s.CurrentRows()[0].Get("name")
		assert.Equal(t, "Z", value.String())
	})

	t.Run("Switch during in-flight add leaves the new table alone", func(t *testing.T) {
		s, store := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))

		started, release := store.holdWrites()
		s.Drafts().UpdateNewDraft("id", "3")
		added := make(chan error, 1)
		go func() {
			_, err := s.AddRow(ctx)
			added <- err
		}()
		<-started

		require.NoError(t, s.SelectTable(ctx, "orders"))

		release()
		require.NoError(t, <-added)
		assert.Equal(t, "orders", s.ActiveTable())
		rowsEqual(t, []model.Row{model.NewRow("id", "o1", "total", "10")}, s.CurrentRows())

		// the row reached the store and shows up on reselect
		require.NoError(t, s.SelectTable(ctx, "users"))
		assert.Len(t, s.CurrentRows(), 3)
	})

	t.Run("Clear during in-flight delete keeps the view empty", func(t *testing.T) {
		s, store := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))

		started, release := store.holdWrites()
		deleted := make(chan error, 1)
		go func() {
			deleted <- s.DeleteRow(ctx, "1")
		}()
		<-started

		require.NoError(t, s.SelectTable(ctx, ""))

		release()
		require.NoError(t, <-deleted)
		assert.Empty(t, s.CurrentRows())
		assert.Equal(t, "", s.ActiveTable())
	})

	t.Run("Add during a pending fetch applies to the shown table", func(t *testing.T) {
		s, store := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))

		block := make(chan struct{})
		store.mu.Lock()
		store.blocks["orders"] = block
		store.mu.Unlock()
		pending := selectAsync(s, "orders")
		require.Eventually(t, func() bool {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.fetchSeq == 2
		}, time.Second, time.Millisecond)

		s.Drafts().UpdateNewDraft("id", "3")
		_, err := s.AddRow(ctx)
		require.NoError(t, err)
		assert.Len(t, s.CurrentRows(), 3)

		close(block)
		require.NoError(t, <-pending)
		assert.Equal(t, "orders", s.ActiveTable())
	})
}

func TestSessionAddRow(t *testing.T) {
	ctx := context.Background()

	t.Run("Without active table no call is made", func(t *testing.T) {
		s, store := newTestSession(t)
		_, err := s.AddRow(ctx)
		assert.ErrorIs(t, err, ErrNoTableSelected)
		assert.Equal(t, 0, store.callCount())
	})

	t.Run("Success appends canonical row and keeps draft", func(t *testing.T) {
		s, _ := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))

		s.Drafts().UpdateNewDraft("id", "3")
		s.Drafts().UpdateNewDraft("name", "C")
		created, err := s.AddRow(ctx)
		require.NoError(t, err)

		rows := s.CurrentRows()
		require.Len(t, rows, 3)
		assert.True(t, created.Equal(rows[2]))
		assert.Equal(t, "3", rows[2].ID())
		assert.Equal(t, "3", s.Drafts().NewDraft().ID())
	})

	t.Run("Failure leaves sequence unchanged", func(t *testing.T) {
		s, _ := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))

		s.Drafts().UpdateNewDraft("id", "1")
		_, err := s.AddRow(ctx)
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Len(t, s.CurrentRows(), 2)
	})
}

func TestSessionUsersScenario(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)
	require.NoError(t, s.SelectTable(ctx, "users"))

	// no edit active
	assert.False(t, s.Drafts().UpdateEditDraft("1", "name", "Z"))
	updated, err := s.SaveEdit(ctx)
	require.NoError(t, err)
	assert.True(t, updated.IsEmpty())
	rowsEqual(t, []model.Row{
		model.NewRow("id", "1", "name", "A"),
		model.NewRow("id", "2", "name", "B"),
	}, s.CurrentRows())

	s.Drafts().BeginEdit(model.NewRow("id", "1", "name", "A"))
	assert.True(t, s.Drafts().UpdateEditDraft("1", "name", "Z"))
	updated, err = s.SaveEdit(ctx)
	require.NoError(t, err)
	assert.True(t, model.NewRow("id", "1", "name", "Z").Equal(updated))
	rowsEqual(t, []model.Row{
		model.NewRow("id", "1", "name", "Z"),
		model.NewRow("id", "2", "name", "B"),
	}, s.CurrentRows())
	_, _, editing := s.Drafts().EditDraft()
	assert.False(t, editing)

	require.NoError(t, s.DeleteRow(ctx, "2"))
	rowsEqual(t, []model.Row{model.NewRow("id", "1", "name", "Z")}, s.CurrentRows())

	t.Run("Second delete is not found", func(t *testing.T) {
		err := s.DeleteRow(ctx, "2")
		var notFound *NotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.Len(t, s.CurrentRows(), 1)
	})
}

func TestSessionSaveEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure keeps sequence and edit draft", func(t *testing.T) {
		s, store := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))
		s.Drafts().BeginEdit(model.NewRow("id", "1", "name", "A"))
		s.Drafts().UpdateEditDraft("1", "name", "Z")

		store.fail(&NetworkError{Op: "update row", StatusCode: 500, Err: errors.New("boom")})
		_, err := s.SaveEdit(ctx)
		require.Error(t, err)

		rows := s.CurrentRows()
		value, _ := rows[0].Get("name")
		assert.Equal(t, "A", value.String())
		id, ok := s.Drafts().EditingID()
		assert.True(t, ok)
		assert.Equal(t, "1", id)
	})

	t.Run("Response id matching no row leaves sequence unchanged", func(t *testing.T) {
		s, store := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))
		before := s.CurrentRows()

		response := model.NewRow("id", "99", "name", "Q")
		store.updateResponse = &response
		s.Drafts().BeginEdit(model.NewRow("id", "1", "name", "A"))
		_, err := s.SaveEdit(ctx)
		require.NoError(t, err)

		rowsEqual(t, before, s.CurrentRows())
		_, ok := s.Drafts().EditingID()
		assert.False(t, ok)
	})

	t.Run("Success clears an edit begun while saving", func(t *testing.T) {
		s, store := newTestSession(t)
		require.NoError(t, s.SelectTable(ctx, "users"))
		s.Drafts().BeginEdit(model.NewRow("id", "1", "name", "A"))

		started, release := store.holdWrites()
		saved := make(chan error, 1)
		go func() {
			_, err := s.SaveEdit(ctx)
			saved <- err
		}()
		<-started

		s.Drafts().BeginEdit(model.NewRow("id", "2", "name", "B"))
		release()
		require.NoError(t, <-saved)

		_, editing := s.Drafts().EditingID()
		assert.False(t, editing)
	})

	t.Run("Only the first matching row is replaced", func(t *testing.T) {
		s, store := newTestSession(t)
		store.tables["dupes"] = []model.Row{
			model.NewRow("id", "1", "name", "A"),
			model.NewRow("id", "1", "name", "B"),
		}
		require.NoError(t, s.SelectTable(ctx, "dupes"))

		s.Drafts().BeginEdit(model.NewRow("id", "1", "name", "A"))
		s.Drafts().UpdateEditDraft("1", "name", "Z")
		_, err := s.SaveEdit(ctx)
		require.NoError(t, err)

		rowsEqual(t, []model.Row{
			model.NewRow("id", "1", "name", "Z"),
			model.NewRow("id", "1", "name", "B"),
		}, s.CurrentRows())
	})
}

func TestSessionDeleteRow(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes every row with the id and keeps order", func(t *testing.T) {
		s, store := newTestSession(t)
		store.tables["dupes"] = []model.Row{
			model.NewRow("id", "a"),
			model.NewRow("id", "x"),
			model.NewRow("id", "b"),
			model.NewRow("id", "x"),
			model.NewRow("id", "c"),
		}
		require.NoError(t, s.SelectTable(ctx, "dupes"))

		require.NoError(t, s.DeleteRow(ctx, "x"))
		rowsEqual(t, []model.Row{
			model.NewRow("id", "a"),
			model.NewRow("id", "b"),
			model.NewRow("id", "c"),
		}, s.CurrentRows())
	})

	t.Run("Without active table no call is made", func(t *testing.T) {
		s, store := newTestSession(t)
		assert.ErrorIs(t, s.DeleteRow(ctx, "1"), ErrNoTableSelected)
		assert.Equal(t, 0, store.callCount())
	})
}

func TestSessionLoadTables(t *testing.T) {
	ctx := context.Background()
	s, store := newTestSession(t)

	require.NoError(t, s.LoadTables(ctx))
	assert.Equal(t, []string{"orders", "users"}, s.Tables())

	store.fail(&NetworkError{Op: "list tables", Err: errors.New("unreachable")})
	require.Error(t, s.LoadTables(ctx))
	assert.Empty(t, s.Tables())
}

func TestColumns(t *testing.T) {
	assert.Empty(t, Columns(nil))
	assert.Equal(t, []string{"id", "b", "a"}, Columns([]model.Row{
		model.NewRow("id", "1", "b", "2", "a", "3"),
		model.NewRow("z", "1"),
	}))
}
