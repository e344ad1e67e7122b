package parser

import (
	"strconv"
	"strings"

	"github.com/tuannm99/minisql/internal/record"
)

// ParseError reports malformed or unsupported statement text.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "parse error: " + e.Msg }

// Parse parses a single statement. The trailing ';' is optional. Dispatch
// is by leading keyword; each sub-parser extracts its clauses by keyword
// position, which bounds the accepted grammar to single-condition WHERE
// clauses, flat comma-separated lists, and at most one JOIN.
func Parse(query string) (Statement, error) {
	s := strings.TrimSpace(query)
	if !strings.HasSuffix(s, ";") {
		s += ";"
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	if s == "" {
		return nil, &ParseError{Msg: "empty statement"}
	}

	up := strings.ToUpper(s)
	switch {
	case strings.HasPrefix(up, "CREATE TABLE"):
		return parseCreateTable(s)
	case strings.HasPrefix(up, "INSERT INTO"):
		return parseInsert(s)
	case strings.HasPrefix(up, "SELECT"):
		return parseSelect(s)
	case strings.HasPrefix(up, "UPDATE"):
		return parseUpdate(s)
	case strings.HasPrefix(up, "DELETE FROM"):
		return parseDelete(s)
	default:
		return nil, &ParseError{Msg: "unsupported query type: " + strings.Fields(up)[0]}
	}
}

func parseCreateTable(s string) (Statement, error) {
	rest := strings.TrimSpace(s[len("CREATE TABLE"):])

	open := strings.Index(rest, "(")
	closing := strings.LastIndex(rest, ")")
	if open < 0 || closing < open {
		return nil, &ParseError{Msg: "missing column definitions"}
	}

	fields := strings.Fields(rest[:open])
	if len(fields) == 0 {
		return nil, &ParseError{Msg: "missing table name in CREATE TABLE"}
	}
	tableName := fields[0]

	var cols []ColumnDef
	for _, def := range strings.Split(rest[open+1:closing], ",") {
		toks := strings.Fields(strings.TrimSpace(def))
		if len(toks) < 2 {
			continue
		}
		constraints := strings.ToUpper(strings.Join(toks[2:], " "))
		cols = append(cols, ColumnDef{
			Name:       toks[0],
			Type:       strings.ToUpper(toks[1]),
			PrimaryKey: strings.Contains(constraints, "PRIMARY KEY"),
			Unique:     strings.Contains(constraints, "UNIQUE"),
			NotNull:    strings.Contains(constraints, "NOT NULL"),
		})
	}

	return &CreateTableStmt{TableName: tableName, Columns: cols}, nil
}

func parseInsert(s string) (Statement, error) {
	rest := strings.TrimSpace(s[len("INSERT INTO"):])

	idx := strings.Index(strings.ToUpper(rest), "VALUES")
	if idx < 0 {
		return nil, &ParseError{Msg: "missing VALUES clause"}
	}
	head := strings.TrimSpace(rest[:idx])
	tail := strings.TrimSpace(rest[idx+len("VALUES"):])

	fields := strings.Fields(head)
	if len(fields) == 0 {
		return nil, &ParseError{Msg: "missing table name in INSERT"}
	}
	tableName := fields[0]

	// Optional explicit column list between the table name and VALUES.
	var columns []string
	if open := strings.Index(head, "("); open >= 0 {
		closing := strings.Index(head[open:], ")")
		if closing < 0 {
			return nil, &ParseError{Msg: "unterminated column list in INSERT"}
		}
		for _, c := range strings.Split(head[open+1:open+closing], ",") {
			columns = append(columns, strings.TrimSpace(c))
		}
	}

	open := strings.Index(tail, "(")
	closing := strings.Index(tail, ")")
	if open < 0 || closing < open {
		return nil, &ParseError{Msg: "missing VALUES clause"}
	}

	var values []record.Value
	for _, raw := range strings.Split(tail[open+1:closing], ",") {
		values = append(values, ParseLiteral(strings.TrimSpace(raw)))
	}

	return &InsertStmt{TableName: tableName, Columns: columns, Values: values}, nil
}

func parseSelect(s string) (Statement, error) {
	colsPart, rest := splitKeyword(strings.TrimSpace(s[len("SELECT"):]), "FROM")
	if strings.TrimSpace(rest) == "" {
		return nil, &ParseError{Msg: "missing FROM clause"}
	}

	var columns []string
	colsPart = strings.TrimSpace(colsPart)
	if colsPart == "*" {
		columns = []string{"*"}
	} else {
		for _, c := range strings.Split(colsPart, ",") {
			columns = append(columns, strings.TrimSpace(c))
		}
	}

	beforeWhere, where := splitKeyword(rest, "WHERE")

	tablePart, joinPart := splitKeyword(beforeWhere, "JOIN")
	fields := strings.Fields(tablePart)
	if len(fields) == 0 {
		return nil, &ParseError{Msg: "missing FROM clause"}
	}
	tableName := fields[0]

	// A JOIN without an ON clause is ignored rather than rejected, matching
	// the fixed-pattern extraction: the clause simply fails to match.
	var joinTable, joinCond string
	if joinPart != "" {
		jt, cond := splitKeyword(joinPart, "ON")
		if strings.TrimSpace(cond) != "" {
			jf := strings.Fields(jt)
			if len(jf) == 0 {
				return nil, &ParseError{Msg: "missing table name in JOIN"}
			}
			joinTable = jf[0]
			joinCond = strings.TrimSpace(cond)
		}
	}

	return &SelectStmt{
		TableName: tableName,
		Columns:   columns,
		Where:     strings.TrimSpace(where),
		JoinTable: joinTable,
		JoinCond:  joinCond,
	}, nil
}

func parseUpdate(s string) (Statement, error) {
	rest := strings.TrimSpace(s[len("UPDATE"):])

	tablePart, afterTable := splitKeyword(rest, "SET")
	fields := strings.Fields(tablePart)
	if len(fields) == 0 {
		return nil, &ParseError{Msg: "missing table name in UPDATE"}
	}
	tableName := fields[0]

	setPart, where := splitKeyword(afterTable, "WHERE")
	setPart = strings.TrimSpace(setPart)
	if setPart == "" {
		return nil, &ParseError{Msg: "missing SET clause"}
	}

	var assigns []Assignment
	for _, a := range strings.Split(setPart, ",") {
		kv := strings.SplitN(a, "=", 2)
		if len(kv) != 2 {
			continue
		}
		assigns = append(assigns, Assignment{
			Column: strings.TrimSpace(kv[0]),
			Value:  ParseLiteral(strings.TrimSpace(kv[1])),
		})
	}

	return &UpdateStmt{
		TableName:   tableName,
		Assignments: assigns,
		Where:       strings.TrimSpace(where),
	}, nil
}

func parseDelete(s string) (Statement, error) {
	rest := strings.TrimSpace(s[len("DELETE FROM"):])

	tablePart, where := splitKeyword(rest, "WHERE")
	fields := strings.Fields(tablePart)
	if len(fields) == 0 {
		return nil, &ParseError{Msg: "missing table name in DELETE"}
	}

	return &DeleteStmt{
		TableName: fields[0],
		Where:     strings.TrimSpace(where),
	}, nil
}

// ParseLiteral applies the uniform literal rule: matching single or double
// quotes make a string (quotes stripped, no escape processing); NULL, TRUE
// and FALSE are case-insensitive keywords; a token containing '.' parses as
// float; otherwise integer, then float, then the raw text.
func ParseLiteral(raw string) record.Value {
	if len(raw) >= 2 {
		if (raw[0] == '\'' && raw[len(raw)-1] == '\'') ||
			(raw[0] == '"' && raw[len(raw)-1] == '"') {
			return record.Text(raw[1 : len(raw)-1])
		}
	}
	switch strings.ToUpper(raw) {
	case "NULL":
		return record.Null()
	case "TRUE":
		return record.Bool(true)
	case "FALSE":
		return record.Bool(false)
	}
	if strings.Contains(raw, ".") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return record.Float(f)
		}
		return record.Text(raw)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return record.Int(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return record.Float(f)
	}
	return record.Text(raw)
}

// splitKeyword splits "X <keyword> Y" case-insensitively on the first
// occurrence of the space-delimited keyword. If the keyword is absent the
// whole input is returned as X.
func splitKeyword(s, keyword string) (string, string) {
	up := strings.ToUpper(s)
	k := " " + strings.ToUpper(keyword) + " "
	idx := strings.Index(up, k)
	if idx < 0 {
		return s, ""
	}
	left := strings.TrimSpace(s[:idx])
	right := strings.TrimSpace(s[idx+len(k):])
	return left, right
}
