package executor

import (
	"fmt"
	"strings"

	"github.com/tuannm99/minisql/internal/record"
	"github.com/tuannm99/minisql/internal/sql/parser"
)

// execJoin evaluates a two-table equi-join by nested loop: every row of
// the first table crossed with every row of the second, merged whenever
// the join columns compare equal. Merged rows prefix every key with its
// originating table name ("users.id"), so a WHERE post-filter only matches
// when its column lookups use the same prefixed form.
func (e *Executor) execJoin(st *parser.SelectStmt) *Result {
	left, okLeft := e.db.Table(st.TableName)
	right, okRight := e.db.Table(st.JoinTable)
	if !okLeft || !okRight {
		return failure(&QueryError{Msg: "one or both tables do not exist"})
	}

	parts := strings.Split(st.JoinCond, "=")
	if len(parts) != 2 {
		return failure(&QueryError{Msg: fmt.Sprintf("invalid JOIN condition: %s", st.JoinCond)})
	}
	leftCol := stripQualifier(strings.TrimSpace(parts[0]))
	rightCol := stripQualifier(strings.TrimSpace(parts[1]))

	leftRows := left.Rows()
	rightRows := right.Rows()

	var merged []record.Row
	for _, r1 := range leftRows {
		for _, r2 := range rightRows {
			if !r1.Get(leftCol).Equal(r2.Get(rightCol)) {
				continue
			}
			m := make(record.Row, len(r1)+len(r2))
			for k, v := range r1 {
				m[st.TableName+"."+k] = v
			}
			for k, v := range r2 {
				m[st.JoinTable+"."+k] = v
			}
			merged = append(merged, m)
		}
	}

	if st.Where != "" {
		pred := BuildPredicate(st.Where)
		filtered := merged[:0]
		for _, row := range merged {
			if pred(row) {
				filtered = append(filtered, row)
			}
		}
		merged = filtered
	}

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Retrieved %d row(s)", len(merged)),
		Data:    merged,
	}
}
