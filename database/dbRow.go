package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/siherrmann/dataManager/model"

	"github.com/lib/pq"
	"github.com/siherrmann/queuer/helper"
)

// RowDBHandlerFunctions defines the interface for row store operations.
type RowDBHandlerFunctions interface {
	CheckTableExistance() (bool, error)
	CreateTable() error
	DropTable() error
	SelectAllTables() ([]string, error)
	SelectAllRows(table string) ([]model.Row, error)
	SelectRow(table string, id string) (model.Row, error)
	InsertRow(table string, row model.Row) (model.Row, error)
	UpdateRow(table string, id string, row model.Row) (model.Row, error)
	DeleteRow(table string, id string) error
	ResolveTable(id string) (string, error)
	ReplaceRows(table string, rows []model.Row) error
}

// RowDBHandler implements RowDBHandlerFunctions on postgres.
// Row fields are stored as JSON (not JSONB) so the field order survives.
type RowDBHandler struct {
	db *helper.Database
}

// NewRowDBHandler creates a new instance of RowDBHandler.
// If withTableDrop is true, it will drop the existing row tables before creating new ones.
func NewRowDBHandler(dbConnection *helper.Database, withTableDrop bool) (*RowDBHandler, error) {
	if dbConnection == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	rowDbHandler := &RowDBHandler{
		db: dbConnection,
	}

	if withTableDrop {
		err := rowDbHandler.DropTable()
		if err != nil {
			return nil, helper.NewError("drop table", err)
		}
	}

	err := rowDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	return rowDbHandler, nil
}

// CheckTableExistance checks if the 'data_row' table exists in the database.
func (r RowDBHandler) CheckTableExistance() (bool, error) {
	rowExists, err := r.db.CheckTableExistance("data_row")
	if err != nil {
		return false, helper.NewError("data_row table", err)
	}
	return rowExists, nil
}

// CreateTable creates the 'data_table' and 'data_row' tables if they do not exist.
func (r RowDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `
		CREATE TABLE IF NOT EXISTS data_table (
			name VARCHAR(120) PRIMARY KEY,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS data_row (
			position BIGSERIAL PRIMARY KEY,
			table_name VARCHAR(120) NOT NULL REFERENCES data_table(name) ON DELETE CASCADE,
			id VARCHAR(255) NOT NULL,
			fields JSON NOT NULL DEFAULT '{}'::json,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			UNIQUE (table_name, id)
		);

		CREATE INDEX IF NOT EXISTS idx_data_row_table_name ON data_row(table_name);
		CREATE INDEX IF NOT EXISTS idx_data_row_id ON data_row(id);
	`

	_, err := r.db.Instance.ExecContext(ctx, query)
	if err != nil {
		return helper.NewError("create data tables", err)
	}

	r.db.Logger.Info("Checked/created tables data_table and data_row")

	return nil
}

// DropTable drops the 'data_row' and 'data_table' tables from the database.
func (r RowDBHandler) DropTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `DROP TABLE IF EXISTS data_row; DROP TABLE IF EXISTS data_table;`
	_, err := r.db.Instance.ExecContext(ctx, query)
	if err != nil {
		return helper.NewError("drop data tables", err)
	}

	r.db.Logger.Info("Dropped tables data_row and data_table")

	return nil
}

// SelectAllTables returns all table names ordered by name.
func (r RowDBHandler) SelectAllTables() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := r.db.Instance.QueryContext(ctx, `SELECT name FROM data_table ORDER BY name`)
	if err != nil {
		return nil, helper.NewError("select tables", err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		err := rows.Scan(&name)
		if err != nil {
			return nil, helper.NewError("scan table name", err)
		}
		tables = append(tables, name)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("iterate tables", err)
	}

	return tables, nil
}

// SelectAllRows returns the rows of a table in insertion order.
func (r RowDBHandler) SelectAllRows(table string) ([]model.Row, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := r.tableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	query := `
		SELECT fields
		FROM data_row
		WHERE table_name = $1
		ORDER BY position ASC
	`

	dbRows, err := r.db.Instance.QueryContext(ctx, query, table)
	if err != nil {
		return nil, helper.NewError("select rows", err)
	}
	defer dbRows.Close()

	rows := []model.Row{}
	for dbRows.Next() {
		var fieldsData []byte
		err := dbRows.Scan(&fieldsData)
		if err != nil {
			return nil, helper.NewError("scan row", err)
		}

		var row model.Row
		err = row.UnmarshalJSON(fieldsData)
		if err != nil {
			return nil, helper.NewError("unmarshal fields", err)
		}
		rows = append(rows, row)
	}

	err = dbRows.Err()
	if err != nil {
		return nil, helper.NewError("iterate rows", err)
	}

	return rows, nil
}

// SelectRow retrieves a single row by table and id.
func (r RowDBHandler) SelectRow(table string, id string) (model.Row, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var fieldsData []byte
	query := `SELECT fields FROM data_row WHERE table_name = $1 AND id = $2`
	err := r.db.Instance.QueryRowContext(ctx, query, table, id).Scan(&fieldsData)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Row{}, fmt.Errorf("%w: no row with id %s in table %s", ErrRowNotFound, id, table)
		}
		return model.Row{}, helper.NewError("select row", err)
	}

	var row model.Row
	err = row.UnmarshalJSON(fieldsData)
	if err != nil {
		return model.Row{}, helper.NewError("unmarshal fields", err)
	}

	return row, nil
}

// InsertRow appends a row to a table, creating the table on first insert.
// The returned row is the stored form with its id normalized to a string.
func (r RowDBHandler) InsertRow(table string, row model.Row) (model.Row, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	canonical, err := canonicalRow(table, row.ID(), row)
	if err != nil {
		return model.Row{}, err
	}

	fieldsJSON, err := canonical.MarshalJSON()
	if err != nil {
		return model.Row{}, helper.NewError("marshal fields", err)
	}

	tx, err := r.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return model.Row{}, helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO data_table (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, table)
	if err != nil {
		return model.Row{}, helper.NewError("insert table", err)
	}

	var storedData []byte
	query := `
		INSERT INTO data_row (table_name, id, fields)
		VALUES ($1, $2, $3)
		RETURNING fields`
	err = tx.QueryRowContext(ctx, query, table, canonical.ID(), string(fieldsJSON)).Scan(&storedData)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Row{}, fmt.Errorf("%w: %s in table %s", ErrDuplicateRow, canonical.ID(), table)
		}
		return model.Row{}, helper.NewError("insert row", err)
	}

	err = tx.Commit()
	if err != nil {
		return model.Row{}, helper.NewError("commit insert row", err)
	}

	var inserted model.Row
	err = inserted.UnmarshalJSON(storedData)
	if err != nil {
		return model.Row{}, helper.NewError("unmarshal fields", err)
	}

	return inserted, nil
}

// UpdateRow replaces all fields of the row identified by table and id.
// The id itself is immutable, a different id in the payload is overwritten.
func (r RowDBHandler) UpdateRow(table string, id string, row model.Row) (model.Row, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	canonical, err := canonicalRow(table, id, row)
	if err != nil {
		return model.Row{}, err
	}

	fieldsJSON, err := canonical.MarshalJSON()
	if err != nil {
		return model.Row{}, helper.NewError("marshal fields", err)
	}

	var storedData []byte
	query := `
		UPDATE data_row
		SET
			fields = $1,
			updated_at = NOW()
		WHERE table_name = $2 AND id = $3
		RETURNING fields`
	err = r.db.Instance.QueryRowContext(ctx, query, string(fieldsJSON), table, id).Scan(&storedData)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Row{}, fmt.Errorf("%w: no row with id %s in table %s", ErrRowNotFound, id, table)
		}
		return model.Row{}, helper.NewError("update row", err)
	}

	var updated model.Row
	err = updated.UnmarshalJSON(storedData)
	if err != nil {
		return model.Row{}, helper.NewError("unmarshal fields", err)
	}

	return updated, nil
}

// DeleteRow deletes a row by table and id.
func (r RowDBHandler) DeleteRow(table string, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `DELETE FROM data_row WHERE table_name = $1 AND id = $2`
	result, err := r.db.Instance.ExecContext(ctx, query, table, id)
	if err != nil {
		return helper.NewError("delete row", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return helper.NewError("get rows affected", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: no row with id %s in table %s", ErrRowNotFound, id, table)
	}

	return nil
}

// ResolveTable finds the single table holding a row with the given id.
func (r RowDBHandler) ResolveTable(id string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := r.db.Instance.QueryContext(ctx, `SELECT table_name FROM data_row WHERE id = $1 LIMIT 2`, id)
	if err != nil {
		return "", helper.NewError("resolve table", err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		err := rows.Scan(&name)
		if err != nil {
			return "", helper.NewError("scan table name", err)
		}
		tables = append(tables, name)
	}

	err = rows.Err()
	if err != nil {
		return "", helper.NewError("iterate tables", err)
	}

	switch len(tables) {
	case 0:
		return "", fmt.Errorf("%w: no row with id %s", ErrRowNotFound, id)
	case 1:
		return tables[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousRow, id)
	}
}

// ReplaceRows replaces the whole content of a table in one transaction.
func (r RowDBHandler) ReplaceRows(table string, rows []model.Row) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := r.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO data_table (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, table)
	if err != nil {
		return helper.NewError("insert table", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM data_row WHERE table_name = $1`, table)
	if err != nil {
		return helper.NewError("delete rows", err)
	}

	for _, row := range rows {
		canonical, err := canonicalRow(table, row.ID(), row)
		if err != nil {
			return err
		}

		fieldsJSON, err := canonical.MarshalJSON()
		if err != nil {
			return helper.NewError("marshal fields", err)
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO data_row (table_name, id, fields) VALUES ($1, $2, $3)`, table, canonical.ID(), string(fieldsJSON))
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s in table %s", ErrDuplicateRow, canonical.ID(), table)
			}
			return helper.NewError("insert row", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return helper.NewError("commit replace rows", err)
	}

	r.db.Logger.Info("Replaced rows", "table", table, "count", len(rows))

	return nil
}

func (r RowDBHandler) tableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := r.db.Instance.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM data_table WHERE name = $1)`, table).Scan(&exists)
	if err != nil {
		return false, helper.NewError("check table", err)
	}
	return exists, nil
}

// canonicalRow validates table and id and returns a copy of row with its id stored as string.
func canonicalRow(table string, id string, row model.Row) (model.Row, error) {
	if table == "" {
		return model.Row{}, fmt.Errorf("%w: table name is required", ErrInvalidRow)
	}
	if id == "" {
		return model.Row{}, fmt.Errorf("%w: row id is required", ErrInvalidRow)
	}
	return row.WithStringID(id), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
