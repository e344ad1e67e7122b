package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/tuannm99/minisql/internal/record"
	"github.com/tuannm99/minisql/internal/sql/executor"
	"github.com/tuannm99/minisql/sqlclient"
)

func main() {
	var (
		addr       = flag.String("addr", "127.0.0.1:8866", "server address")
		timeout    = flag.Duration("timeout", 3*time.Second, "dial timeout")
		rwTimeout  = flag.Duration("rw-timeout", 10*time.Second, "per-request timeout")
		histPath   = flag.String("history", defaultHistoryPath(), "history file path")
		oneShotSQL = flag.String("c", "", "execute one statement and exit")
	)
	flag.Parse()

	cli, err := sqlclient.Dial(*addr, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cli.Close() }()
	cli.SetRWTimeout(*rwTimeout)

	if strings.TrimSpace(*oneShotSQL) != "" {
		res, err := cli.Exec(*oneShotSQL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		printResult(res)
		if !res.Success {
			os.Exit(1)
		}
		return
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "minisql> ",
		HistoryFile:     *histPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

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
		if line == "exit" || line == "quit" {
			break
		}

		res, err := cli.Exec(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		printResult(res)
	}
}

func printResult(res *executor.Result) {
	if !res.Success {
		fmt.Printf("✗ %s\n", res.Message)
		return
	}
	fmt.Printf("✓ %s\n", res.Message)

	if len(res.Data) == 0 {
		return
	}

	colSet := make(map[string]struct{})
	for _, row := range res.Data {
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

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	render := func(row record.Row, c string) string {
		if v, ok := row[c]; ok && !v.IsNull() {
			return v.String()
		}
		return "NULL"
	}
	for _, row := range res.Data {
		for i, c := range cols {
			if n := len(render(row, c)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for i, c := range cols {
		if i > 0 {
			fmt.Print(" | ")
		}
		fmt.Printf("%-*s", widths[i], c)
	}
	fmt.Println()
	for i := range cols {
		if i > 0 {
			fmt.Print("-+-")
		}
		fmt.Print(strings.Repeat("-", widths[i]))
	}
	fmt.Println()
	for _, row := range res.Data {
		for i, c := range cols {
			if i > 0 {
				fmt.Print(" | ")
			}
			fmt.Printf("%-*s", widths[i], render(row, c))
		}
		fmt.Println()
	}
	fmt.Printf("(%d rows)\n", len(res.Data))
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".minisql_client_history"
	}
	return filepath.Join(home, ".minisql_client_history")
}
