package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// SQLWorker answers questions by generating a SQL query, executing it
// against the dataset, and interpreting the result. Its calling convention
// takes the question plus a schema context string.
type SQLWorker struct {
	deps Deps
}

// NewSQLWorker constructs the worker, verifying the store is reachable.
func NewSQLWorker(ctx context.Context, deps Deps) (*SQLWorker, error) {
	if deps.Store == nil {
		return nil, types.NewError(types.WORKER_CONSTRUCTION_FAILED, "sql worker requires a dataset store")
	}
	if len(deps.Store.Tables()) == 0 {
		return nil, types.NewError(types.WORKER_CONSTRUCTION_FAILED, "dataset store has no tables")
	}
	return &SQLWorker{deps: deps}, nil
}

// Role returns RoleSQL.
func (w *SQLWorker) Role() Role { return RoleSQL }

// Close releases worker resources.
func (w *SQLWorker) Close() error { return nil }

const sqlGenerateSystemPrompt = `You are a SQL analyst working against a SQLite database.
Write ONE SQLite SELECT statement that answers the question. Respond with only
the SQL, optionally inside a fenced code block. Do not perform over analysis;
perform only the analysis that is required.`

const sqlInterpretSystemPrompt = `You are a data analyst. Interpret the SQL query and its
result for a business report: state the key figures and what they mean for the
question. Be factual and concise.`

// Query answers the question against the database, injecting the schema
// context into the generation prompt.
func (w *SQLWorker) Query(ctx context.Context, question, schema string) (string, error) {
	genUser := fmt.Sprintf("Database schema:\n%s\nQuestion: %s", schema, question)
	raw, err := w.deps.complete(ctx, sqlGenerateSystemPrompt, genUser)
	if err != nil {
		return "", err
	}

	query := extractSQL(raw)
	if query == "" {
		return "", types.NewError(types.WORKER_INVOCATION_FAILED, "model produced no SQL statement")
	}

	result, err := w.deps.Store.Query(ctx, query)
	if err != nil {
		return "", err
	}

	interpretUser := fmt.Sprintf("Question: %s\n\nSQL executed:\n%s\n\nResult:\n%s", question, query, result)
	return w.deps.complete(ctx, sqlInterpretSystemPrompt, interpretUser)
}

// extractSQL pulls the first SELECT statement out of a model response,
// stripping code fences.
func extractSQL(raw string) string {
	text := raw
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+3:]
		text = strings.TrimPrefix(text, "sql")
		text = strings.TrimPrefix(text, "sqlite")
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}

	text = strings.TrimSpace(text)
	upper := strings.ToUpper(text)
	if idx := strings.Index(upper, "SELECT"); idx >= 0 {
		stmt := text[idx:]
		if semi := strings.Index(stmt, ";"); semi >= 0 {
			stmt = stmt[:semi]
		}
		return strings.TrimSpace(stmt)
	}
	return ""
}
