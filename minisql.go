// Package minisql is the top-level facade for the MiniSQL engine. A
// hosting application opens one Database for the life of the process and
// executes statements through an Executor bound to it.
package minisql

import (
	"github.com/tuannm99/minisql/internal/engine"
	"github.com/tuannm99/minisql/internal/sql/executor"
)

type (
	Database  = engine.Database
	TableInfo = engine.TableInfo
	Executor  = executor.Executor
	Result    = executor.Result
)

// Open creates or reopens the named database under dataDir.
func Open(name, dataDir string) (*Database, error) {
	return engine.Open(name, dataDir)
}

// NewExecutor binds a statement executor to db.
func NewExecutor(db *Database) *Executor {
	return executor.NewExecutor(db)
}
