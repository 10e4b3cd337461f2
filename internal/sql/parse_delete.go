package sql

// parseDelete parses "DELETE FROM <table> WHERE id = <int>" with the
// leading "DELETE" keyword already consumed.
func (p *parser) parseDelete() (Statement, error) {
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	id, err := p.parseWhereID()
	if err != nil {
		return nil, err
	}

	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &DeleteStmt{Table: table, ID: id}, nil
}
