package executor

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/minisql/internal/engine"
	"github.com/tuannm99/minisql/internal/index"
	"github.com/tuannm99/minisql/internal/record"
	"github.com/tuannm99/minisql/internal/schema"
	"github.com/tuannm99/minisql/internal/sql/parser"
	"github.com/tuannm99/minisql/internal/storage"
)

// Executor evaluates parsed statements against a Database registry. It is
// stateless; one long-lived Database can back any number of Executors.
type Executor struct {
	db *engine.Database
}

func NewExecutor(db *engine.Database) *Executor {
	return &Executor{db: db}
}

// Execute is the process-wide entry point: one query string in, one result
// envelope out. Every failure from parsing, schema validation, constraint
// checks or persistence is converted to Success=false here.
func (e *Executor) Execute(query string) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("executor: panic recovered", "err", r)
			res = &Result{Success: false, Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	stmt, err := parser.Parse(query)
	if err != nil {
		return failure(err)
	}

	switch st := stmt.(type) {
	case *parser.CreateTableStmt:
		return e.execCreate(st)
	case *parser.InsertStmt:
		return e.execInsert(st)
	case *parser.SelectStmt:
		return e.execSelect(st)
	case *parser.UpdateStmt:
		return e.execUpdate(st)
	case *parser.DeleteStmt:
		return e.execDelete(st)
	default:
		return failure(&parser.ParseError{Msg: fmt.Sprintf("unsupported statement %T", stmt)})
	}
}

func failure(err error) *Result {
	return &Result{Success: false, Message: err.Error()}
}

func (e *Executor) execCreate(st *parser.CreateTableStmt) *Result {
	columns := make([]schema.Column, 0, len(st.Columns))
	for _, def := range st.Columns {
		dt, err := schema.ParseDataType(def.Type)
		if err != nil {
			return failure(err)
		}
		columns = append(columns, schema.Column{
			Name:       def.Name,
			Type:       dt,
			PrimaryKey: def.PrimaryKey,
			Unique:     def.Unique,
			NotNull:    def.NotNull,
		})
	}

	sc, err := schema.New(st.TableName, columns)
	if err != nil {
		return failure(err)
	}
	if _, err := e.db.CreateTable(sc); err != nil {
		return failure(err)
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Table '%s' created successfully", st.TableName),
	}
}

func (e *Executor) execInsert(st *parser.InsertStmt) *Result {
	tbl, ok := e.db.Table(st.TableName)
	if !ok {
		return failure(&QueryError{Msg: fmt.Sprintf("table '%s' does not exist", st.TableName)})
	}

	// Bind values either to the explicit column list or to schema column
	// order. The zip truncates at the shorter side; columns left unbound
	// are filled with NULL during validation.
	columns := st.Columns
	if len(columns) == 0 {
		for _, col := range tbl.Schema().Columns {
			columns = append(columns, col.Name)
		}
	}
	row := make(record.Row, len(columns))
	for i := 0; i < len(columns) && i < len(st.Values); i++ {
		row[columns[i]] = st.Values[i]
	}

	stored, err := tbl.Insert(row)
	if err != nil {
		return failure(err)
	}

	if im, ok := e.db.IndexManager(st.TableName); ok {
		im.UpdateAll(stored, index.OpInsert)
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("1 row inserted into '%s'", st.TableName),
	}
}

func (e *Executor) execSelect(st *parser.SelectStmt) *Result {
	if st.JoinTable != "" {
		return e.execJoin(st)
	}

	tbl, ok := e.db.Table(st.TableName)
	if !ok {
		return failure(&QueryError{Msg: fmt.Sprintf("table '%s' does not exist", st.TableName)})
	}

	var pred storage.Predicate
	if st.Where != "" {
		pred = BuildPredicate(st.Where)
	}

	rows := tbl.Select(st.Columns, pred)
	return &Result{
		Success: true,
		Message: fmt.Sprintf("Retrieved %d row(s)", len(rows)),
		Data:    rows,
	}
}

func (e *Executor) execUpdate(st *parser.UpdateStmt) *Result {
	tbl, ok := e.db.Table(st.TableName)
	if !ok {
		return failure(&QueryError{Msg: fmt.Sprintf("table '%s' does not exist", st.TableName)})
	}

	var pred storage.Predicate
	if st.Where != "" {
		pred = BuildPredicate(st.Where)
	}

	assigns := make([]storage.Assignment, len(st.Assignments))
	for i, a := range st.Assignments {
		assigns[i] = storage.Assignment{Column: a.Column, Value: a.Value}
	}

	count, err := tbl.Update(assigns, pred)
	if err != nil {
		return failure(err)
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("%d row(s) updated", count),
	}
}

func (e *Executor) execDelete(st *parser.DeleteStmt) *Result {
	tbl, ok := e.db.Table(st.TableName)
	if !ok {
		return failure(&QueryError{Msg: fmt.Sprintf("table '%s' does not exist", st.TableName)})
	}

	var pred storage.Predicate
	if st.Where != "" {
		pred = BuildPredicate(st.Where)
	}

	// Capture the matching rows first so their index entries can be
	// retired after the delete.
	matched := tbl.Select(nil, pred)

	count, err := tbl.Delete(pred)
	if err != nil {
		return failure(err)
	}

	if im, ok := e.db.IndexManager(st.TableName); ok {
		for _, row := range matched {
			im.UpdateAll(row, index.OpDelete)
		}
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("%d row(s) deleted", count),
	}
}
