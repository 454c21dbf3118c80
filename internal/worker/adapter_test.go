package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// Per-convention stubs. Each implements exactly one calling convention so
// dispatch tests exercise the tagged branches independently.

type stubAnalyzer struct {
	role     Role
	text     string
	err      error
	panicMsg string
	gotQ     string
}

func (s *stubAnalyzer) Role() Role   { return s.role }
func (s *stubAnalyzer) Close() error { return nil }

func (s *stubAnalyzer) Analyze(ctx context.Context, question string) (string, error) {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	s.gotQ = question
	return s.text, s.err
}

type stubQuerier struct {
	gotQ, gotSchema string
}

func (s *stubQuerier) Role() Role   { return RoleSQL }
func (s *stubQuerier) Close() error { return nil }

func (s *stubQuerier) Query(ctx context.Context, question, schema string) (string, error) {
	s.gotQ, s.gotSchema = question, schema
	return "sql findings", nil
}

type stubResearcher struct {
	gotQuery string
}

func (s *stubResearcher) Role() Role   { return RoleMarket }
func (s *stubResearcher) Close() error { return nil }

func (s *stubResearcher) Research(ctx context.Context, query string) (string, error) {
	s.gotQuery = query
	return "market findings", nil
}

type stubStructured struct {
	role   Role
	gotReq AnalysisRequest
}

func (s *stubStructured) Role() Role   { return s.role }
func (s *stubStructured) Close() error { return nil }

func (s *stubStructured) Invoke(ctx context.Context, req AnalysisRequest) (string, error) {
	s.gotReq = req
	return "structured findings", nil
}

// bareInstance satisfies Instance but no calling convention.
type bareInstance struct{ role Role }

func (b *bareInstance) Role() Role   { return b.role }
func (b *bareInstance) Close() error { return nil }

func TestAdapterDispatchConventions(t *testing.T) {
	ctx := context.Background()
	inv := Invocation{Question: "how did Q3 go?", Section: "marketing_roi", Schema: "TABLE master (...)"}

	t.Run("question analyzer", func(t *testing.T) {
		stub := &stubAnalyzer{role: RoleExploration, text: "explored"}
		result := NewAdapter(RoleExploration, nil).Invoke(ctx, stub, inv)

		require.True(t, result.OK())
		assert.Equal(t, "explored", result.Text)
		assert.Equal(t, inv.Question, stub.gotQ)
	})

	t.Run("schema querier", func(t *testing.T) {
		stub := &stubQuerier{}
		result := NewAdapter(RoleSQL, nil).Invoke(ctx, stub, inv)

		require.True(t, result.OK())
		assert.Equal(t, inv.Question, stub.gotQ)
		assert.Equal(t, inv.Schema, stub.gotSchema)
	})

	t.Run("researcher", func(t *testing.T) {
		stub := &stubResearcher{}
		result := NewAdapter(RoleMarket, nil).Invoke(ctx, stub, inv)

		require.True(t, result.OK())
		assert.Equal(t, inv.Question, stub.gotQuery)
	})

	t.Run("structured analyzer", func(t *testing.T) {
		for _, role := range []Role{RoleROI, RoleBudget, RoleKPI} {
			stub := &stubStructured{role: role}
			result := NewAdapter(role, nil).Invoke(ctx, stub, inv)

			require.True(t, result.OK(), "role %s", role)
			assert.Equal(t, inv.Section, stub.gotReq.Section)
			assert.Equal(t, inv.Question, stub.gotReq.Question)
			assert.Equal(t, inv.Schema, stub.gotReq.Schema)
		}
	})
}

func TestAdapterCapturesPanic(t *testing.T) {
	stub := &stubAnalyzer{role: RoleExploration, panicMsg: "index out of range"}
	result := NewAdapter(RoleExploration, nil).Invoke(context.Background(), stub, Invocation{Question: "q"})

	require.True(t, result.Failed)
	assert.Equal(t, FailurePanic, result.Kind)
	assert.Contains(t, result.Message, "index out of range")
}

func TestAdapterErrorBecomesResult(t *testing.T) {
	stub := &stubAnalyzer{role: RoleExploration, err: errors.New("llm unavailable")}
	result := NewAdapter(RoleExploration, nil).Invoke(context.Background(), stub, Invocation{Question: "q"})

	require.True(t, result.Failed)
	assert.Equal(t, FailureInvocation, result.Kind)
	assert.Contains(t, result.Message, "llm unavailable")
	assert.True(t, result.Retryable())
}

func TestAdapterConstructionErrorNotRetryable(t *testing.T) {
	err := types.NewError(types.WORKER_CONSTRUCTION_FAILED, "no data source")
	result := FailureFromError(RoleSQL, err, 0)

	assert.Equal(t, FailureConstruction, result.Kind)
	assert.False(t, result.Retryable())
}

func TestAdapterRejectsMismatchedInstance(t *testing.T) {
	stub := &stubQuerier{}
	result := NewAdapter(RoleExploration, nil).Invoke(context.Background(), stub, Invocation{})

	require.True(t, result.Failed)
	assert.Contains(t, result.Message, "received sql instance")
}

func TestAdapterRejectsWrongConvention(t *testing.T) {
	inst := &bareInstance{role: RoleExploration}
	result := NewAdapter(RoleExploration, nil).Invoke(context.Background(), inst, Invocation{})

	require.True(t, result.Failed)
	assert.Equal(t, FailureInvocation, result.Kind)
	assert.Contains(t, result.Message, "convention")
}

func TestAdapterNilInstance(t *testing.T) {
	result := NewAdapter(RoleSQL, nil).Invoke(context.Background(), nil, Invocation{})

	require.True(t, result.Failed)
	assert.Contains(t, result.Message, "nil worker instance")
}
