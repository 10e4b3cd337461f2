// Command rowkeep is the interactive shell over a rowkeep data root: it
// loads configuration, opens the catalog, and drives a read-eval-print
// loop accepting the query language from internal/sql.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rowkeep/internal/config"
	"rowkeep/internal/engine"
	"rowkeep/internal/sql"
	"rowkeep/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataRoot string
	var configPath string

	root := &cobra.Command{
		Use:   "rowkeep",
		Short: "rowkeep is an embedded single-node relational store",
	}
	root.PersistentFlags().StringVar(&dataRoot, "data-root", "", "directory holding the catalog and table files (overrides config/env)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a rowkeep.toml config file")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "start an interactive SQL shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(configPath, dataRoot)
		},
	}
	root.AddCommand(replCmd)
	root.RunE = replCmd.RunE

	return root
}

func runREPL(configPath, dataRootFlag string) error {
	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("rowkeep: building logger: %w", err)
	}
	defer log.Sync()

	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dataRootFlag != "" {
		settings.DataRoot = dataRootFlag
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	db, err := storage.OpenDatabase(settings.DataRoot, log)
	if err != nil {
		return err
	}
	defer db.Close()

	eng := engine.New(db, log)

	log.Info("rowkeep repl starting", zap.String("data_root", settings.DataRoot))
	repl(eng, os.Stdin, os.Stdout)
	return nil
}

// repl buffers input lines until a trailing ";" (or recognizes a leading
// "." dot-command on its own line), then dispatches to the parser/engine.
func repl(eng *engine.Engine, in io.Reader, out io.Writer) {
	reader := bufio.NewReader(in)
	var buf strings.Builder

	fmt.Fprintln(out, "rowkeep — type .help for commands, or a SQL statement ending in ;")

	for {
		if buf.Len() == 0 {
			fmt.Fprint(out, "rowkeep> ")
		} else {
			fmt.Fprint(out, "     ...> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		trimmed := strings.TrimSpace(line)

		if buf.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			if handleDotCommand(eng, trimmed, out) {
				return
			}
			continue
		}

		buf.WriteString(line)
		if !strings.HasSuffix(trimmed, ";") {
			continue
		}

		query := buf.String()
		buf.Reset()
		runQuery(eng, query, out)
	}
}

func runQuery(eng *engine.Engine, query string, out io.Writer) {
	stmt, err := sql.Parse(query)
	if err != nil {
		fmt.Fprintln(out, "Parse error:", err)
		return
	}

	res, err := eng.Execute(stmt)
	if err != nil {
		fmt.Fprintln(out, "Execution error:", err)
		return
	}

	if len(res.Columns) > 0 {
		fmt.Fprintln(out, engine.FormatTable(res))
		return
	}
	fmt.Fprintln(out, res.Message)
}

func handleDotCommand(eng *engine.Engine, cmd string, out io.Writer) (exit bool) {
	switch {
	case cmd == ".exit" || cmd == ".quit":
		return true
	case cmd == ".help":
		fmt.Fprintln(out, ".tables            list known tables")
		fmt.Fprintln(out, ".schema <table>    show a table's fields")
		fmt.Fprintln(out, ".exit              quit")
		return false
	case cmd == ".tables":
		fmt.Fprintln(out, strings.Join(eng.ListTables(), "\n"))
		return false
	case strings.HasPrefix(cmd, ".schema "):
		name := strings.TrimSpace(strings.TrimPrefix(cmd, ".schema "))
		fmt.Fprintln(out, eng.DescribeTable(name))
		return false
	default:
		fmt.Fprintln(out, "unknown command:", cmd)
		return false
	}
}
