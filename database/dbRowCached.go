package database

import (
	"time"

	"github.com/siherrmann/dataManager/model"

	"github.com/dgraph-io/ristretto/v2"
)

const rowCacheTTL = 30 * time.Second

// RowDBHandlerCached keeps the row lists of recently read tables in a
// ristretto cache in front of another row store. Every write to a table
// drops its cached list.
type RowDBHandlerCached struct {
	RowDBHandlerFunctions
	cache *ristretto.Cache[string, []model.Row]
}

// NewRowDBHandlerCached wraps next with a cache holding up to maxRows rows.
func NewRowDBHandlerCached(next RowDBHandlerFunctions, maxRows int64) (*RowDBHandlerCached, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, []model.Row]{
		NumCounters: maxRows * 10,
		MaxCost:     maxRows,
		BufferItems: 64,
		// Cost is counted in rows, not bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	return &RowDBHandlerCached{
		RowDBHandlerFunctions: next,
		cache:                 cache,
	}, nil
}

func (r *RowDBHandlerCached) SelectAllRows(table string) ([]model.Row, error) {
	if rows, ok := r.cache.Get(table); ok {
		return model.CloneRows(rows), nil
	}

	rows, err := r.RowDBHandlerFunctions.SelectAllRows(table)
	if err != nil {
		return nil, err
	}

	r.cache.SetWithTTL(table, model.CloneRows(rows), int64(len(rows))+1, rowCacheTTL)
	return rows, nil
}

func (r *RowDBHandlerCached) InsertRow(table string, row model.Row) (model.Row, error) {
	defer r.cache.Del(table)
	return r.RowDBHandlerFunctions.InsertRow(table, row)
}

func (r *RowDBHandlerCached) UpdateRow(table string, id string, row model.Row) (model.Row, error) {
	defer r.cache.Del(table)
	return r.RowDBHandlerFunctions.UpdateRow(table, id, row)
}

func (r *RowDBHandlerCached) DeleteRow(table string, id string) error {
	defer r.cache.Del(table)
	return r.RowDBHandlerFunctions.DeleteRow(table, id)
}

func (r *RowDBHandlerCached) ReplaceRows(table string, rows []model.Row) error {
	defer r.cache.Del(table)
	return r.RowDBHandlerFunctions.ReplaceRows(table, rows)
}

func (r *RowDBHandlerCached) DropTable() error {
	defer r.cache.Clear()
	return r.RowDBHandlerFunctions.DropTable()
}

// Close releases the cache.
func (r *RowDBHandlerCached) Close() {
	r.cache.Close()
}
