package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tuannm99/minisql"
	"github.com/tuannm99/minisql/internal"
	"github.com/tuannm99/minisql/internal/record"
)

const helpText = `Available commands:
  help              - show this help
  tables            - list all tables
  describe <table>  - show table schema and row count
  index <t> <col>   - create a hash index on a column
  drop <table>      - drop a table
  exit / quit       - leave the shell

SQL statements:
  CREATE TABLE t (col TYPE [PRIMARY KEY|UNIQUE|NOT NULL], ...);
  INSERT INTO t [(col, ...)] VALUES (val, ...);
  SELECT cols|* FROM t [JOIN t2 ON cond] [WHERE cond];
  UPDATE t SET col = val [, ...] [WHERE cond];
  DELETE FROM t [WHERE cond];

Types: INTEGER, TEXT, BOOLEAN, FLOAT
Constraints: PRIMARY KEY, UNIQUE, NOT NULL`

func main() {
	var (
		cfgPath = flag.String("config", "", "optional yaml config file")
		dbName  = flag.String("db", "mydb", "database name")
		dataDir = flag.String("data-dir", "data", "directory for database files")
		history = flag.String("history", defaultHistoryPath(), "history file path")
	)
	flag.Parse()

	name, dir := *dbName, *dataDir
	if *cfgPath != "" {
		cfg, err := internal.LoadConfig(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		name = cfg.Database.Name
		dir = cfg.Database.DataDir
	}

	db, err := minisql.Open(name, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	exec := minisql.NewExecutor(db)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "db> ",
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	fmt.Printf("minisql shell — database %q (%s)\n", name, dir)
	fmt.Println("Type 'help' for commands, 'exit' to quit")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if metaHandled(line) {
			if quit := runMeta(db, line); quit {
				break
			}
			continue
		}

		printResult(exec.Execute(line))
	}
	fmt.Println("Goodbye!")
}

// metaHandled reports whether line is a shell meta command rather than SQL.
func metaHandled(line string) bool {
	word := strings.ToLower(strings.Fields(line)[0])
	switch word {
	case "help", "tables", "describe", "index", "drop", "exit", "quit":
		return true
	}
	return false
}

// runMeta executes a meta command; it returns true when the shell should
// exit.
func runMeta(db *minisql.Database, line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "exit", "quit":
		return true
	case "help":
		fmt.Println(helpText)
	case "tables":
		tables := db.ListTables()
		if len(tables) == 0 {
			fmt.Println("No tables found")
			break
		}
		fmt.Println("Tables:")
		for _, t := range tables {
			fmt.Printf("  - %s\n", t)
		}
	case "describe":
		if len(fields) != 2 {
			fmt.Println("usage: describe <table>")
			break
		}
		describeTable(db, fields[1])
	case "index":
		if len(fields) != 3 {
			fmt.Println("usage: index <table> <column>")
			break
		}
		if err := db.CreateIndex(fields[1], fields[2]); err != nil {
			fmt.Printf("✗ %v\n", err)
			break
		}
		fmt.Printf("✓ index created on %s.%s\n", fields[1], fields[2])
	case "drop":
		if len(fields) != 2 {
			fmt.Println("usage: drop <table>")
			break
		}
		if err := db.DropTable(fields[1]); err != nil {
			fmt.Printf("✗ %v\n", err)
			break
		}
		fmt.Printf("✓ table '%s' dropped\n", fields[1])
	}
	return false
}

func describeTable(db *minisql.Database, name string) {
	info, err := db.Describe(name)
	if err != nil {
		fmt.Printf("✗ %v\n", err)
		return
	}

	fmt.Printf("Table: %s\n", info.Name)
	for _, col := range info.Columns {
		var constraints []string
		if col.PrimaryKey {
			constraints = append(constraints, "PRIMARY KEY")
		}
		if col.Unique {
			constraints = append(constraints, "UNIQUE")
		}
		if col.NotNull {
			constraints = append(constraints, "NOT NULL")
		}
		suffix := ""
		if len(constraints) > 0 {
			suffix = " " + strings.Join(constraints, ", ")
		}
		fmt.Printf("  %-16s %s%s\n", col.Name, col.Type, suffix)
	}
	fmt.Printf("Row count: %d\n", info.RowCount)
}

func printResult(res *minisql.Result) {
	if !res.Success {
		fmt.Printf("✗ %s\n", res.Message)
		return
	}
	fmt.Printf("✓ %s\n", res.Message)
	if len(res.Data) > 0 {
		printGrid(res.Data)
	}
}

// printGrid renders rows as an aligned text table. Internal columns
// (underscore-prefixed) are hidden; null and absent cells show as NULL.
func printGrid(rows []record.Row) {
	colSet := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			if !strings.HasPrefix(k, "_") {
				colSet[k] = struct{}{}
			}
		}
	}
	cols := make([]string, 0, len(colSet))
	for c := range colSet {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	if len(cols) == 0 {
		fmt.Println("(empty result)")
		return
	}

	widths := make([]int, len(cols))
	cells := make([][]string, len(rows))
	for i, c := range cols {
		widths[i] = len(c)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			s := "NULL"
			if v, ok := row[c]; ok && !v.IsNull() {
				s = v.String()
			}
			cells[r][i] = s
			if len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}

	printRow := func(values []string) {
		for i := range cols {
			if i > 0 {
				fmt.Print(" | ")
			}
			fmt.Print(padRight(values[i], widths[i]))
		}
		fmt.Println()
	}

	printRow(cols)
	for i := range cols {
		if i > 0 {
			fmt.Print("-+-")
		}
		fmt.Print(strings.Repeat("-", widths[i]))
	}
	fmt.Println()
	for _, row := range cells {
		printRow(row)
	}
	fmt.Printf("(%d rows)\n", len(rows))
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".minisql_history"
	}
	return filepath.Join(home, ".minisql_history")
}
