package parser

import (
	"math"

	"github.com/leftmike/colcalc/expr"
	"github.com/leftmike/colcalc/parser/token"
	"github.com/leftmike/colcalc/stmt"
	"github.com/leftmike/colcalc/types"
)

func (p *parser) parseStmt() stmt.Stmt {
	switch p.expectKeyword(types.ACCU, types.CALC, types.CREATE, types.EVALUATE,
		types.INSERT, types.LINK, types.REMOVE, types.SET, types.SHOW, types.STATUS) {
	case types.ACCU:
		return p.parseAccu()
	case types.CALC:
		return p.parseCalc()
	case types.CREATE:
		// CREATE TABLE <table>
		// CREATE COLUMN <table> . <column> <type> | <table> [KEY]
		if p.expectKeyword(types.TABLE, types.COLUMN) == types.TABLE {
			return &stmt.CreateTable{Table: p.expectIdentifier("expected a table")}
		}
		var s stmt.CreateColumn
		s.Column = p.parseColumnName()
		s.Output = p.expectIdentifier("expected a type or a table")
		s.Key = p.optionalKeyword(types.KEY) == types.KEY
		return &s
	case types.EVALUATE:
		// EVALUATE [<table> . <column>]
		var s stmt.Evaluate
		if p.maybeToken(token.Identifier) {
			p.unscan()
			cn := p.parseColumnName()
			s.Column = &cn
		}
		return &s
	case types.INSERT:
		return p.parseInsert()
	case types.LINK:
		return p.parseLink()
	case types.REMOVE:
		// REMOVE ROWS <count> FROM <table>
		var s stmt.RemoveRows
		p.expectKeyword(types.ROWS)
		s.Count = p.expectInteger(0, math.MaxInt64)
		p.expectKeyword(types.FROM)
		s.Table = p.expectIdentifier("expected a table")
		return &s
	case types.SET:
		// SET <table> . <column> [ROW <row>] = <expr>
		var s stmt.SetValue
		s.Column = p.parseColumnName()
		if p.optionalKeyword(types.ROW) == types.ROW {
			s.Row = p.expectInteger(0, math.MaxInt64)
		} else {
			s.AllRows = true
		}
		p.expectTokens(token.Equal)
		s.Value = p.parseExpr(0)
		return &s
	case types.SHOW:
		// SHOW TABLES
		// SHOW TABLE <table>
		if p.expectKeyword(types.TABLES, types.TABLE) == types.TABLES {
			return stmt.ShowTables{}
		}
		return &stmt.ShowTable{Table: p.expectIdentifier("expected a table")}
	case types.STATUS:
		return stmt.Status{}
	}

	panic("unreachable")
}

func (p *parser) parseColumnName() stmt.ColumnName {
	var cn stmt.ColumnName
	cn.Table = p.expectIdentifier("expected a table")
	p.expectTokens(token.Dot)
	cn.Column = p.expectIdentifier("expected a column")
	return cn
}

func (p *parser) parseDialect() string {
	if p.optionalKeyword(types.USING) == types.USING {
		return p.expectIdentifier("expected a formula dialect").String()
	}
	return ""
}

func (p *parser) parseCalc() stmt.Stmt {
	// CALC <table> . <column> [USING <dialect>] <formula>
	var s stmt.Calc
	s.Column = p.parseColumnName()
	s.Dialect = p.parseDialect()
	s.Formula = p.expectFormula()
	return &s
}

func (p *parser) parseLink() stmt.Stmt {
	// LINK <table> . <column> [USING <dialect>] BY <key> = <formula> [, ...] [APPEND]
	var s stmt.Link
	s.Column = p.parseColumnName()
	s.Dialect = p.parseDialect()
	p.expectKeyword(types.BY)
	for {
		s.Keys = append(s.Keys, p.expectIdentifier("expected a key column"))
		p.expectTokens(token.Equal)
		s.Formulas = append(s.Formulas, p.expectFormula())
		if !p.maybeToken(token.Comma) {
			break
		}
	}
	s.Append = p.optionalKeyword(types.APPEND) == types.APPEND
	return &s
}

func (p *parser) parseAccu() stmt.Stmt {
	/*
		ACCU <table> . <column> [USING <dialect>]
			INIT <formula> ACCUMULATE <formula> [FINALIZE <formula>]
			FROM <table> BY <column> [. <column> ...]
	*/
	var s stmt.Accu
	s.Column = p.parseColumnName()
	s.Dialect = p.parseDialect()
	p.expectKeyword(types.INIT)
	s.Init = p.expectFormula()
	p.expectKeyword(types.ACCUMULATE)
	s.Accumulate = p.expectFormula()
	if p.optionalKeyword(types.FINALIZE) == types.FINALIZE {
		s.Finalize = p.expectFormula()
	}
	p.expectKeyword(types.FROM)
	s.From = p.expectIdentifier("expected a table")
	p.expectKeyword(types.BY)
	s.By = append(s.By, p.expectIdentifier("expected a column"))
	for p.maybeToken(token.Dot) {
		s.By = append(s.By, p.expectIdentifier("expected a column"))
	}
	return &s
}

func (p *parser) parseInsert() stmt.Stmt {
	// INSERT INTO <table> [( <column> [, ...] )] VALUES ( <expr> [, ...] ) [, ...]
	var s stmt.InsertValues
	p.expectKeyword(types.INTO)
	s.Table = p.expectIdentifier("expected a table")

	if p.maybeToken(token.LParen) {
		for {
			s.Columns = append(s.Columns, p.expectIdentifier("expected a column"))
			if p.expectTokens(token.Comma, token.RParen) == token.RParen {
				break
			}
		}
	}

	p.expectKeyword(types.VALUES)
	for {
		var row []expr.Expr
		p.expectTokens(token.LParen)
		for {
			row = append(row, p.parseExpr(0))
			if p.expectTokens(token.Comma, token.RParen) == token.RParen {
				break
			}
		}
		s.Rows = append(s.Rows, row)

		if !p.maybeToken(token.Comma) {
			break
		}
	}
	return &s
}
