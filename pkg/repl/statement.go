package repl

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/c-bata/db-tutorial/pkg/row"
	"github.com/c-bata/db-tutorial/pkg/table"
)

// StatementType identifies which operation a prepared statement performs.
type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

// Statement is the prepared form of one input line: the operation plus,
// for inserts, the row parsed out of the arguments.
type Statement struct {
	Type StatementType
	Row  row.Row
}

// Prepare classifies malformed input. The loop matches these with
// errors.Is to pick the message shown to the user.
var (
	ErrSyntax                = errors.New("could not parse statement")
	ErrNegativeID            = errors.New("id must be positive")
	ErrStringTooLong         = errors.New("string is too long")
	ErrUnrecognizedStatement = errors.New("unrecognized keyword")
)

// Prepare parses one non-meta input line into a Statement.
func Prepare(input string) (*Statement, error) {
	if strings.HasPrefix(input, "insert") {
		return prepareInsert(input)
	}
	if strings.HasPrefix(input, "select") {
		return &Statement{Type: StatementSelect}, nil
	}
	return nil, ErrUnrecognizedStatement
}

// prepareInsert parses "insert <id> <username> <email>". Extra tokens
// past the email are ignored, matching the tokenizer of the original
// command syntax.
func prepareInsert(input string) (*Statement, error) {
	fields := strings.Fields(input)
	if len(fields) < 4 {
		return nil, ErrSyntax
	}

	id, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		if strings.HasPrefix(fields[1], "-") {
			return nil, ErrNegativeID
		}
		return nil, ErrSyntax
	}

	username, email := fields[2], fields[3]
	if len(username) > row.MaxUsernameLen || len(email) > row.MaxEmailLen {
		return nil, ErrStringTooLong
	}

	return &Statement{
		Type: StatementInsert,
		Row:  row.Row{ID: uint32(id), Username: username, Email: email},
	}, nil
}

// Execute runs a prepared statement against tbl. Select output goes to
// out, one row per line. Errors come back to the caller; the loop
// decides which ones the session survives.
func Execute(stmt *Statement, tbl *table.Table, out io.Writer) error {
	switch stmt.Type {
	case StatementInsert:
		return tbl.Insert(stmt.Row)
	case StatementSelect:
		return executeSelect(tbl, out)
	default:
		return fmt.Errorf("unknown statement type %d", stmt.Type)
	}
}

func executeSelect(tbl *table.Table, out io.Writer) error {
	s := tbl.Scan()
	if err := s.Open(); err != nil {
		return err
	}
	defer s.Close()

	for {
		ok, err := s.HasNext()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		r, err := s.Next()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, r.String())
	}
}
