package duck

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	nt "sifter/entity"
)

// Todo: follow a growing ndjson file, would need streaming which search does not do

const (
	table   = "records"
	staging = "records_staging"
)

// Duck loads local json files through an in-memory duckdb.
// The driver must be registered by the caller: _ "github.com/marcboeker/go-duckdb".
type Duck struct {
	db       *sql.DB
	logger   nt.Logger
	filename string
	mu       sync.Mutex // Serializes loads over the one table
}

func New(lgr nt.Logger) (dk *Duck, err error) {

	db, err := sql.Open("duckdb", "")
	if err != nil {
		err = errors.Wrapf(err, "failed to open memo duck")
		return
	}
	// each connection would get its own in-memory database
	db.SetMaxOpenConns(1)

	dk = &Duck{
		db:     db,
		logger: lgr,
	}

	return
}

func (dk *Duck) Close() {
	dk.db.Close()
}

// Name returns the name of the loaded file
func (dk *Duck) Name() string {
	dk.mu.Lock()
	defer dk.mu.Unlock()
	return dk.filename
}

// Fetch loads a json array or newline delimited json file, replacing any
// previously loaded one. A failed load leaves the previous one in place.
func (dk *Duck) Fetch(ctx context.Context, path string) (result nt.Result, err error) {

	dk.mu.Lock()
	defer dk.mu.Unlock()

	err = loadTable(ctx, dk.db, path)
	if err != nil {
		return
	}
	dk.filename = path

	result.Columns, err = getColumns(ctx, dk.db)
	if err != nil {
		return
	}

	result.Data, err = getRecords(ctx, dk.db)
	if err != nil {
		return
	}

	dk.logger.Info(ctx, "loaded file", "path", path, "columns", len(result.Columns), "records", len(result.Data))
	return
}

// unexported

func loadTable(ctx context.Context, db *sql.DB, path string) (err error) {

	_, err = db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", staging))
	if err != nil {
		err = errors.Wrapf(err, "failed to drop staging table")
		return
	}

	// read_json_auto sniffs array vs newline delimited and infers nested structs
	create := fmt.Sprintf(`
		CREATE TABLE %s AS
		SELECT * FROM read_json_auto('%s', maximum_object_size=16777216)
	`, staging, quote(path))

	_, err = db.ExecContext(ctx, create)
	if err != nil {
		err = errors.Wrapf(err, "failed to load %s", path)
		return
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
	if err != nil {
		err = errors.Wrapf(err, "failed to drop table")
		return
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", staging, table))
	err = errors.Wrapf(err, "failed to swap in %s", path)
	return
}

func getColumns(ctx context.Context, db *sql.DB) (columns []string, err error) {

	rows, err := db.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		err = errors.Wrapf(err, "failed to query schema")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			err = errors.Wrapf(err, "failed to scan column")
			return
		}
		columns = append(columns, name)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating columns")
	return
}

func getRecords(ctx context.Context, db *sql.DB) (records []nt.Record, err error) {

	// to_json renders each row struct with nested values intact
	query := fmt.Sprintf("SELECT to_json(t)::VARCHAR FROM %s t", table)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		err = errors.Wrapf(err, "failed to query records")
		return
	}
	defer rows.Close()

	records = []nt.Record{}
	for rows.Next() {
		var raw string
		if err = rows.Scan(&raw); err != nil {
			err = errors.Wrapf(err, "failed to scan row")
			return
		}

		rec := nt.Record{}
		if err = json.Unmarshal([]byte(raw), &rec); err != nil {
			err = errors.Wrapf(err, "failed to decode row")
			return
		}
		records = append(records, rec)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating rows")
	return
}

func quote(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}
