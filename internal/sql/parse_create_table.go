package sql

import "fmt"

// parseCreateTable parses "CREATE TABLE <table> (<col>: <type>, ...)"
// with the leading "CREATE" keyword already consumed.
func (p *parser) parseCreateTable() (Statement, error) {
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var columns []ColumnDef
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		typ, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		columns = append(columns, ColumnDef{Name: name, Type: typ})

		if p.peekPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: CREATE TABLE requires at least one field", ErrSyntax)
	}

	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &CreateTableStmt{Table: table, Columns: columns}, nil
}

// parseDropTable parses "DROP TABLE <table>" with the leading "DROP"
// keyword already consumed.
func (p *parser) parseDropTable() (Statement, error) {
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &DropTableStmt{Table: table}, nil
}
