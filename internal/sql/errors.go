package sql

import "errors"

// ErrSyntax is wrapped by every parse error this package returns.
var ErrSyntax = errors.New("sql: syntax error")
