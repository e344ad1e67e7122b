package parser

import "github.com/tuannm99/minisql/internal/record"

// Statement is the root interface for all parsed statements.
type Statement interface {
	stmtNode()
}

// ColumnDef is one column definition from a CREATE TABLE body. Type is the
// raw type token; the executor resolves it against the schema vocabulary.
type ColumnDef struct {
	Name       string
	Type       string
	PrimaryKey bool
	Unique     bool
	NotNull    bool
}

type CreateTableStmt struct {
	TableName string
	Columns   []ColumnDef
}

func (*CreateTableStmt) stmtNode() {}

// InsertStmt carries an optional explicit column list. When Columns is nil
// the values bind to the schema's column order.
type InsertStmt struct {
	TableName string
	Columns   []string
	Values    []record.Value
}

func (*InsertStmt) stmtNode() {}

// SelectStmt keeps the WHERE and JOIN condition texts verbatim; predicate
// construction happens at execution time.
type SelectStmt struct {
	TableName string
	Columns   []string
	Where     string
	JoinTable string
	JoinCond  string
}

func (*SelectStmt) stmtNode() {}

// Assignment is one SET column = literal pair, in statement order.
type Assignment struct {
	Column string
	Value  record.Value
}

type UpdateStmt struct {
	TableName   string
	Assignments []Assignment
	Where       string
}

func (*UpdateStmt) stmtNode() {}

type DeleteStmt struct {
	TableName string
	Where     string
}

func (*DeleteStmt) stmtNode() {}
