package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

// Logger provides the core logging functionality.
type Logger struct {
	mu       sync.Mutex
	severity Severity
	outputs  []Output
	fields   map[string]interface{} // Default fields for all logs
}

// Output interface allows for different logging destinations.
type Output interface {
	Write(LogEntry) error
	Sync() error
	Close() error
}

// Config allows flexible logger configuration.
type Config struct {
	Severity      Severity
	Outputs       []Output
	DefaultFields map[string]interface{}
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg Config) *Logger {
	return &Logger{
		severity: cfg.Severity,
		outputs:  cfg.Outputs,
		fields:   cfg.DefaultFields,
	}
}

// Context keys for experiment state carried across the driver call tree.
type problemIDKeyType struct{}
type restartKeyType struct{}
type evalInfoKeyType struct{}

var (
	problemIDKey = problemIDKeyType{}
	restartKey   = restartKeyType{}
	evalInfoKey  = evalInfoKeyType{}
)

// WithProblemID attaches the current problem identifier to the context.
func WithProblemID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, problemIDKey, id)
}

// GetProblemID retrieves the problem identifier from the context.
func GetProblemID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(problemIDKey).(string)
	return id, ok
}

// WithRestart attaches the current restart index to the context.
func WithRestart(ctx context.Context, restart int) context.Context {
	return context.WithValue(ctx, restartKey, restart)
}

// GetRestart retrieves the restart index from the context.
func GetRestart(ctx context.Context) (int, bool) {
	r, ok := ctx.Value(restartKey).(int)
	return r, ok
}

// WithEvalInfo attaches the current evaluation counters to the context.
func WithEvalInfo(ctx context.Context, info *EvalInfo) context.Context {
	return context.WithValue(ctx, evalInfoKey, info)
}

// GetEvalInfo retrieves the evaluation counters from the context.
func GetEvalInfo(ctx context.Context) (*EvalInfo, bool) {
	info, ok := ctx.Value(evalInfoKey).(*EvalInfo)
	return info, ok
}

// logf is the core logging function that handles all severity levels.
func (l *Logger) logf(ctx context.Context, s Severity, format string, args ...interface{}) {
	// Early severity check for performance
	if s < l.severity {
		return
	}

	// Get caller information
	pc, file, line, _ := runtime.Caller(2)
	fn := runtime.FuncForPC(pc).Name()

	entry := LogEntry{
		Time:     time.Now().UnixNano(),
		Severity: s,
		Message:  fmt.Sprintf(format, args...),
		File:     filepath.Base(file),
		Line:     line,
		Function: filepath.Base(fn),
		Fields:   make(map[string]interface{}),
	}

	// Add context values if present
	if ctx != nil {
		if id, ok := GetProblemID(ctx); ok {
			entry.ProblemID = id
		}
		if r, ok := GetRestart(ctx); ok {
			entry.RestartSeq = r
		}
		if info, ok := GetEvalInfo(ctx); ok {
			entry.EvalInfo = info
		}
	}

	// Add default fields
	for k, v := range l.fields {
		if _, exists := entry.Fields[k]; !exists {
			entry.Fields[k] = v
		}
	}

	// Write to all outputs
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, out := range l.outputs {
		if err := out.Write(entry); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
		}
	}
}

// Evaluation logs one solver invocation at DEBUG with its budget state.
func (l *Logger) Evaluation(ctx context.Context, problemID string, info *EvalInfo) {
	if l.severity > DEBUG {
		return
	}

	l.Debug(WithEvalInfo(ctx, info),
		"evaluation state: problem: %s, evals: %d, constraints: %d, remaining: %d",
		problemID,
		info.Evaluations,
		info.EvaluationsConstraints,
		info.BudgetRemaining,
	)
}

// Regular severity-based logging methods.
func (l *Logger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.logf(ctx, DEBUG, format, args...)
}

func (l *Logger) Info(ctx context.Context, format string, args ...interface{}) {
	l.logf(ctx, INFO, format, args...)
}

func (l *Logger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.logf(ctx, WARN, format, args...)
}

func (l *Logger) Error(ctx context.Context, format string, args ...interface{}) {
	l.logf(ctx, ERROR, format, args...)
}

// GetLogger returns the global logger instance.
func GetLogger() *Logger {
	// First try reading without a write lock
	mu.RLock()
	if l := defaultLogger; l != nil {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	if defaultLogger == nil {
		defaultLogger = NewLogger(Config{
			Severity: INFO,
			Outputs: []Output{
				NewConsoleOutput(true),
			},
		})
	}

	return defaultLogger
}

// SetLogger allows setting a custom configured logger as the global instance.
func SetLogger(l *Logger) {
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}
