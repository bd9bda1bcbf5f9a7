package logging

// LogEntry represents a structured log record with fields particularly
// relevant to benchmark experiments.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Experiment-specific fields
	ProblemID  string    // The benchmark problem being processed
	EvalInfo   *EvalInfo // Evaluation counters for the problem
	RestartSeq int       // Restart index within the current problem

	// General structured data
	Fields map[string]interface{}
}

// EvalInfo tracks evaluation usage for budget and timing monitoring.
type EvalInfo struct {
	Evaluations            int
	EvaluationsConstraints int
	BudgetRemaining        int
}
