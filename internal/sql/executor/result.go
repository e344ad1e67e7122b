package executor

import "github.com/tuannm99/minisql/internal/record"

// Result is the uniform envelope returned to every caller. Execute never
// propagates a failure; errors surface here as Success=false plus Message.
type Result struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    []record.Row `json:"data,omitempty"`
}

// QueryError reports a malformed join/where construction or a missing
// table reference.
type QueryError struct {
	Msg string
}

func (e *QueryError) Error() string { return "query error: " + e.Msg }
