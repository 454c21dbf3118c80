// Package dataset loads tabular CSV data into an in-memory SQLite database
// and exposes it to the analysis workers as a queryable store. The store is
// the single data-source handle threaded through worker construction; it is
// built once by the top-level caller and reused until recycled.
package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// maxQueryRows caps result sets returned to workers so LLM prompts stay bounded.
const maxQueryRows = 50

// Column describes one column of a loaded table.
type Column struct {
	Name   string
	Type   string // "REAL" or "TEXT"
	Sample string
}

// Table describes one loaded table.
type Table struct {
	Name    string
	Rows    int
	Columns []Column
}

// Store provides queryable access to the loaded dataset.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	mu     sync.RWMutex
	tables map[string]Table
}

// Open loads CSV data from path into a fresh in-memory SQLite database.
// Path may be a single CSV file or a directory; each file becomes one table
// named after its base name (a single file loads as table "master").
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Shared-cache DSN so the loader goroutines and later readers observe
	// one database; a single open connection keeps SQLite happy in-memory.
	// The database name is unique per Store so concurrently open stores
	// never see each other's tables.
	dsn := fmt.Sprintf("file:marketlens-%s?mode=memory&cache=shared&_busy_timeout=5000", types.NewID())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(types.DATA_OPEN_FAILED, "failed to open in-memory database", err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, types.WrapError(types.DATA_OPEN_FAILED, "failed to ping database", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
		tables: make(map[string]Table),
	}

	if err := s.load(ctx, path); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// load discovers CSV files under path and imports them concurrently.
func (s *Store) load(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return types.WrapError(types.DATA_LOAD_FAILED, "data path not accessible", err)
	}

	type source struct {
		table string
		file  string
	}
	var sources []source

	if info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(path, "*.csv"))
		if err != nil {
			return types.WrapError(types.DATA_LOAD_FAILED, "failed to list data directory", err)
		}
		for _, file := range matches {
			table := strings.TrimSuffix(filepath.Base(file), ".csv")
			sources = append(sources, source{table: table, file: file})
		}
	} else {
		sources = append(sources, source{table: "master", file: path})
	}

	if len(sources) == 0 {
		return types.NewError(types.DATA_LOAD_FAILED, fmt.Sprintf("no CSV files found at %s", path))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			return s.loadTable(gctx, src.table, src.file)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "dataset loaded",
		"path", path,
		"tables", len(sources),
	)
	return nil
}

// loadTable parses one CSV file and imports it as a table.
func (s *Store) loadTable(ctx context.Context, table, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return types.WrapError(types.DATA_LOAD_FAILED, "failed to open "+file, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return types.WrapError(types.DATA_LOAD_FAILED, "failed to parse "+file, err)
	}
	if len(records) < 1 {
		return types.NewError(types.DATA_LOAD_FAILED, file+" is empty")
	}

	header := records[0]
	rows := records[1:]
	colTypes := inferColumnTypes(header, rows)

	cols := make([]Column, len(header))
	defs := make([]string, len(header))
	for i, name := range header {
		clean := sanitizeIdentifier(name)
		cols[i] = Column{Name: clean, Type: colTypes[i]}
		if len(rows) > 0 && i < len(rows[0]) {
			cols[i].Sample = truncate(rows[0][i], 30)
		}
		defs[i] = fmt.Sprintf("%q %s", clean, colTypes[i])
	}

	createStmt := fmt.Sprintf("CREATE TABLE %q (%s)", table, strings.Join(defs, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.WrapError(types.DATA_LOAD_FAILED, "failed to begin import transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createStmt); err != nil {
		return types.WrapError(types.DATA_LOAD_FAILED, "failed to create table "+table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(header)), ",")
	insertStmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %q VALUES (%s)", table, placeholders))
	if err != nil {
		return types.WrapError(types.DATA_LOAD_FAILED, "failed to prepare insert for "+table, err)
	}
	defer insertStmt.Close()

	for _, row := range rows {
		args := make([]any, len(header))
		for i := range header {
			if i >= len(row) || row[i] == "" {
				args[i] = nil
				continue
			}
			if colTypes[i] == "REAL" {
				v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
				if err != nil {
					args[i] = nil
					continue
				}
				args[i] = v
				continue
			}
			args[i] = row[i]
		}
		if _, err := insertStmt.ExecContext(ctx, args...); err != nil {
			return types.WrapError(types.DATA_LOAD_FAILED, "failed to insert into "+table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.WrapError(types.DATA_LOAD_FAILED, "failed to commit import for "+table, err)
	}

	s.mu.Lock()
	s.tables[table] = Table{Name: table, Rows: len(rows), Columns: cols}
	s.mu.Unlock()

	s.logger.Debug("table imported", "table", table, "rows", len(rows), "columns", len(header))
	return nil
}

// Tables returns descriptions of all loaded tables, sorted by name.
func (s *Store) Tables() []Table {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SchemaInfo generates a textual schema description of all loaded tables,
// suitable for inclusion in worker prompts.
func (s *Store) SchemaInfo() string {
	var b strings.Builder
	b.WriteString("Available Data Tables:\n\n")

	for _, t := range s.Tables() {
		fmt.Fprintf(&b, "Table: %s\n", t.Name)
		fmt.Fprintf(&b, "Rows: %d, Columns: %d\n", t.Rows, len(t.Columns))
		b.WriteString("Columns:\n")
		for _, c := range t.Columns {
			fmt.Fprintf(&b, "  - %s (%s), Sample: %s\n", c.Name, c.Type, c.Sample)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Query executes a read-only SQL query and renders the result as aligned
// text, capped at maxQueryRows rows.
func (s *Store) Query(ctx context.Context, query string) (string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return "", types.WrapError(types.DATA_QUERY_FAILED, "query failed", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", types.WrapError(types.DATA_QUERY_FAILED, "failed to read result columns", err)
	}

	var b strings.Builder
	b.WriteString(strings.Join(cols, " | "))
	b.WriteString("\n")

	count := 0
	for rows.Next() {
		if count >= maxQueryRows {
			fmt.Fprintf(&b, "... (truncated at %d rows)\n", maxQueryRows)
			break
		}

		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", types.WrapError(types.DATA_QUERY_FAILED, "failed to scan row", err)
		}

		vals := make([]string, len(cols))
		for i, v := range raw {
			vals[i] = formatValue(v)
		}
		b.WriteString(strings.Join(vals, " | "))
		b.WriteString("\n")
		count++
	}

	if err := rows.Err(); err != nil {
		return "", types.WrapError(types.DATA_QUERY_FAILED, "row iteration failed", err)
	}

	return b.String(), nil
}

// QueryScalar executes a query expected to return a single numeric value.
func (s *Store) QueryScalar(ctx context.Context, query string) (float64, error) {
	var v sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, query).Scan(&v); err != nil {
		return 0, types.WrapError(types.DATA_QUERY_FAILED, "scalar query failed", err)
	}
	return v.Float64, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// inferColumnTypes classifies each column as REAL when every non-empty value
// parses as a number, TEXT otherwise.
func inferColumnTypes(header []string, rows [][]string) []string {
	colTypes := make([]string, len(header))
	for i := range header {
		numeric := false
		for _, row := range rows {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err != nil {
				numeric = false
				break
			}
			numeric = true
		}
		if numeric {
			colTypes[i] = "REAL"
		} else {
			colTypes[i] = "TEXT"
		}
	}
	return colTypes
}

// sanitizeIdentifier normalizes a CSV header into a safe SQL identifier.
func sanitizeIdentifier(name string) string {
	var b strings.Builder
	lastSep := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSep = false
		case r == '_' || r == ' ' || r == '-' || r == '/':
			if !lastSep {
				b.WriteRune('_')
				lastSep = true
			}
		}
	}
	clean := strings.TrimSuffix(b.String(), "_")
	if clean == "" {
		clean = "col"
	}
	return clean
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
