package logging

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryOutput collects entries for inspection in tests.
type memoryOutput struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (m *memoryOutput) Write(e LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryOutput) Sync() error  { return nil }
func (m *memoryOutput) Close() error { return nil }

func TestLoggerSeverityFiltering(t *testing.T) {
	out := &memoryOutput{}
	logger := NewLogger(Config{Severity: WARN, Outputs: []Output{out}})

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	require.Len(t, out.entries, 2)
	assert.Equal(t, WARN, out.entries[0].Severity)
	assert.Equal(t, ERROR, out.entries[1].Severity)
}

func TestLoggerContextFields(t *testing.T) {
	out := &memoryOutput{}
	logger := NewLogger(Config{Severity: DEBUG, Outputs: []Output{out}})

	ctx := WithProblemID(context.Background(), "f003_i02_d05")
	ctx = WithRestart(ctx, 4)
	logger.Info(ctx, "restart %d", 4)

	require.Len(t, out.entries, 1)
	assert.Equal(t, "f003_i02_d05", out.entries[0].ProblemID)
	assert.Equal(t, 4, out.entries[0].RestartSeq)
	assert.Equal(t, "restart 4", out.entries[0].Message)
}

func TestLoggerDefaultFields(t *testing.T) {
	out := &memoryOutput{}
	logger := NewLogger(Config{
		Severity:      INFO,
		Outputs:       []Output{out},
		DefaultFields: map[string]interface{}{"suite": "toy-bbob"},
	})

	logger.Info(context.Background(), "starting")

	require.Len(t, out.entries, 1)
	assert.Equal(t, "toy-bbob", out.entries[0].Fields["suite"])
}

func TestEvaluationLogging(t *testing.T) {
	out := &memoryOutput{}
	logger := NewLogger(Config{Severity: DEBUG, Outputs: []Output{out}})

	logger.Evaluation(context.Background(), "f001_i01_d02", &EvalInfo{
		Evaluations:     17,
		BudgetRemaining: 3,
	})

	require.Len(t, out.entries, 1)
	assert.Contains(t, out.entries[0].Message, "evals: 17")
	assert.Contains(t, out.entries[0].Message, "remaining: 3")

	// Counters travel as a structured field, not only in the message
	require.NotNil(t, out.entries[0].EvalInfo)
	assert.Equal(t, 17, out.entries[0].EvalInfo.Evaluations)
	assert.Equal(t, 3, out.entries[0].EvalInfo.BudgetRemaining)

	// Suppressed above DEBUG
	quiet := NewLogger(Config{Severity: INFO, Outputs: []Output{out}})
	quiet.Evaluation(context.Background(), "f001_i01_d02", &EvalInfo{})
	assert.Len(t, out.entries, 1)
}

func TestGlobalLogger(t *testing.T) {
	out := &memoryOutput{}
	custom := NewLogger(Config{Severity: DEBUG, Outputs: []Output{out}})
	SetLogger(custom)
	defer SetLogger(NewLogger(Config{Severity: INFO, Outputs: []Output{NewConsoleOutput(true)}}))

	assert.Same(t, custom, GetLogger())
}

func TestConsoleOutputRendersEvalInfo(t *testing.T) {
	var buf strings.Builder
	out := &ConsoleOutput{writer: &buf}

	err := out.Write(LogEntry{
		Severity:  DEBUG,
		Message:   "evaluation state",
		ProblemID: "f001_i01_d02",
		EvalInfo:  &EvalInfo{Evaluations: 42},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "[problem=f001_i01_d02]")
	assert.Contains(t, buf.String(), "[evals=42]")
}

func TestFormatFields(t *testing.T) {
	s := formatFields(map[string]interface{}{"dimension": 20})
	assert.True(t, strings.Contains(s, "dimension=20"))
	assert.Empty(t, formatFields(nil))
}
