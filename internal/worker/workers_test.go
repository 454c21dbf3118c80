package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshusheo/Market-Lens/internal/dataset"
	"github.com/Himanshusheo/Market-Lens/internal/llm/providers"
	"github.com/Himanshusheo/Market-Lens/internal/types"
	"github.com/Himanshusheo/Market-Lens/internal/websearch"
)

type fixedSearcher struct {
	resp websearch.Response
	err  error
}

func (f *fixedSearcher) Search(ctx context.Context, query string) (websearch.Response, error) {
	return f.resp, f.err
}

func testDeps(t *testing.T, responses []string) (Deps, *providers.MockProvider) {
	t.Helper()

	dir := t.TempDir()
	csv := "channel,spend,revenue\nemail,1000,5200\nsearch,2500,7100\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "campaigns.csv"), []byte(csv), 0o644))

	store, err := dataset.Open(context.Background(), dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mock := providers.NewMockProvider(responses)
	return Deps{
		LLM:   mock,
		Store: store,
		Searcher: &fixedSearcher{resp: websearch.Response{
			Query:   "q",
			Results: []websearch.Result{{Title: "Outlook", Content: "sector growing"}},
		}},
		Model: "test-model",
	}, mock
}

func TestExplorationWorkerProfilesAtConstruction(t *testing.T) {
	deps, mock := testDeps(t, []string{"exploration narrative"})

	w, err := NewExplorationWorker(context.Background(), deps)
	require.NoError(t, err)

	out, err := w.Analyze(context.Background(), "summarize the data")
	require.NoError(t, err)
	assert.Equal(t, "exploration narrative", out)

	prompt, err := mock.LastPrompt()
	require.NoError(t, err)
	assert.Contains(t, prompt, "Table: campaigns")
	assert.Contains(t, prompt, "Statistics for campaigns.spend")
	assert.Contains(t, prompt, "summarize the data")
}

func TestExplorationWorkerRequiresStore(t *testing.T) {
	_, err := NewExplorationWorker(context.Background(), Deps{})
	require.Error(t, err)
	assert.Equal(t, types.WORKER_CONSTRUCTION_FAILED, types.CodeOf(err))
}

func TestSQLWorkerGeneratesExecutesInterprets(t *testing.T) {
	deps, mock := testDeps(t, []string{
		"```sql\nSELECT channel, revenue FROM campaigns ORDER BY revenue DESC;\n```",
		"search drives the most revenue",
	})

	w, err := NewSQLWorker(context.Background(), deps)
	require.NoError(t, err)

	out, err := w.Query(context.Background(), "which channel earns most?", deps.Store.SchemaInfo())
	require.NoError(t, err)
	assert.Equal(t, "search drives the most revenue", out)

	// The interpretation prompt carries the executed SQL and its result.
	prompt, err := mock.LastPrompt()
	require.NoError(t, err)
	assert.Contains(t, prompt, "SELECT channel, revenue FROM campaigns")
	assert.Contains(t, prompt, "search")
	assert.Equal(t, 2, mock.CallCount())
}

func TestSQLWorkerRejectsNonSQLResponse(t *testing.T) {
	deps, _ := testDeps(t, []string{"I cannot write SQL for that."})

	w, err := NewSQLWorker(context.Background(), deps)
	require.NoError(t, err)

	_, err = w.Query(context.Background(), "q", "schema")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SQL statement")
}

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare statement", "SELECT * FROM t", "SELECT * FROM t"},
		{"fenced", "```sql\nSELECT a FROM t;\n```", "SELECT a FROM t"},
		{"fenced no language", "```\nselect a from t\n```", "select a from t"},
		{"prose prefix", "Here is the query: SELECT a FROM t; hope it helps", "SELECT a FROM t"},
		{"no sql", "I am unable to help", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSQL(tt.in))
		})
	}
}

func TestAnalysisWorkersPrecomputeAggregates(t *testing.T) {
	deps, mock := testDeps(t, []string{"roi narrative"})

	w, err := NewROIWorker(context.Background(), deps)
	require.NoError(t, err)

	out, err := w.Invoke(context.Background(), AnalysisRequest{
		Section:  "marketing_roi",
		Question: "what is the return?",
		Schema:   "schema text",
	})
	require.NoError(t, err)
	assert.Equal(t, "roi narrative", out)

	prompt, err := mock.LastPrompt()
	require.NoError(t, err)
	assert.Contains(t, prompt, "campaigns.spend: total=3500.00")
	assert.Contains(t, prompt, "campaigns.revenue: total=12300.00")
	assert.Contains(t, prompt, "marketing_roi")
}

func TestMarketWorkerSearchesThenSynthesizes(t *testing.T) {
	deps, mock := testDeps(t, []string{"market narrative"})

	w, err := NewMarketWorker(context.Background(), deps)
	require.NoError(t, err)

	out, err := w.Research(context.Background(), "industry outlook")
	require.NoError(t, err)
	assert.Equal(t, "market narrative", out)

	prompt, err := mock.LastPrompt()
	require.NoError(t, err)
	assert.Contains(t, prompt, "sector growing")
	assert.Contains(t, prompt, "industry outlook")
}

func TestMarketWorkerPropagatesSearchError(t *testing.T) {
	deps, _ := testDeps(t, []string{"unused"})
	deps.Searcher = &fixedSearcher{err: types.NewRetryableError("SEARCH_RATE_LIMITED", "rate limited")}

	w, err := NewMarketWorker(context.Background(), deps)
	require.NoError(t, err)

	_, err = w.Research(context.Background(), "q")
	require.Error(t, err)
}
