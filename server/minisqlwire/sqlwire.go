package minisqlwire

import "github.com/tuannm99/minisql/internal/sql/executor"

// ExecuteRequest is a single statement request.
type ExecuteRequest struct {
	ID  uint64 `json:"id"`
	SQL string `json:"sql"`
}

// ExecuteResponse carries the result envelope for a request ID. Error is
// reserved for transport-level failures; statement failures arrive inside
// Result with Success=false.
type ExecuteResponse struct {
	ID     uint64           `json:"id"`
	Result *executor.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}
