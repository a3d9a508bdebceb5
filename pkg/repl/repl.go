// Package repl implements the interactive statement loop: a prompt on
// stdout, one statement or meta command per line, results echoed back.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/c-bata/db-tutorial/pkg/table"
)

// Prompt is printed before every input line.
const Prompt = "db > "

// REPL reads statements from in and writes results to out, operating
// on one open table. Wiring the streams in makes a session scriptable.
type REPL struct {
	table *table.Table
	in    io.Reader
	out   io.Writer
}

// NewREPL creates a statement loop over tbl.
func NewREPL(tbl *table.Table, in io.Reader, out io.Writer) *REPL {
	return &REPL{table: tbl, in: in, out: out}
}

// Run loops until ".exit" closes the table, the input ends, or an
// unrecoverable error occurs. ".exit" is the only clean way out: an
// input stream that just ends leaves the table unflushed and Run
// returns an error.
func (r *REPL) Run() error {
	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, Prompt)

		if !scanner.Scan() {
			fmt.Fprintln(r.out, "Error reading input")
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			return fmt.Errorf("input ended without .exit")
		}
		line := strings.TrimSpace(scanner.Text())

		quit, err := Dispatch(r.table, line, r.out)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Dispatch handles one input line against tbl, writing any user-facing
// output to out. It reports quit=true after ".exit" has closed the
// table. A returned error is unrecoverable; user mistakes (bad syntax,
// a full table) are reported on out and leave the session running.
func Dispatch(tbl *table.Table, line string, out io.Writer) (quit bool, err error) {
	if strings.HasPrefix(line, ".") {
		result, err := doMetaCommand(line, tbl, out)
		if err != nil {
			return result == metaExit, err
		}
		switch result {
		case metaExit:
			return true, nil
		case metaUnrecognized:
			fmt.Fprintf(out, "Unrecognized command '%s'\n", line)
		}
		return false, nil
	}

	stmt, err := Prepare(line)
	if err != nil {
		switch {
		case errors.Is(err, ErrStringTooLong):
			fmt.Fprintln(out, "String is too long.")
		case errors.Is(err, ErrNegativeID):
			fmt.Fprintln(out, "ID must be positive.")
		case errors.Is(err, ErrSyntax):
			fmt.Fprintln(out, "Syntax error. Could not parse statement.")
		case errors.Is(err, ErrUnrecognizedStatement):
			fmt.Fprintf(out, "Unrecognized keyword at start of '%s'.\n", line)
		default:
			return false, err
		}
		return false, nil
	}

	if err := Execute(stmt, tbl, out); err != nil {
		if errors.Is(err, table.ErrTableFull) {
			fmt.Fprintln(out, "Error: Table full.")
			return false, nil
		}
		return false, err
	}

	fmt.Fprintln(out, "Executed.")
	return false, nil
}
