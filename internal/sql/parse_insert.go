package sql

// parseInsert parses "INSERT INTO <table> <col> = <lit>, ..." with the
// leading "INSERT" keyword already consumed.
func (p *parser) parseInsert() (Statement, error) {
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	assignments, err := p.parseAssignmentList()
	if err != nil {
		return nil, err
	}

	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &InsertStmt{Table: table, Assignments: assignments}, nil
}
