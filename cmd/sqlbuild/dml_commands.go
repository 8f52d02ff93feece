package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bawdo/sqlbuild/managers"
	"github.com/bawdo/sqlbuild/nodes"
)

// --- DML command handlers ---

// setMode switches the statement kind and drops any SELECT in progress.
func (s *Session) setMode(m dmlMode) {
	s.mode = m
	s.query = nil
	s.setOps = nil
	s.insert, s.update, s.del = nil, nil, nil
}

// targetColumn resolves a bare column name against the statement's table
// and qualified names through the registered tables.
func (s *Session) targetColumn(t nodes.TableRef, ref string) (nodes.Node, error) {
	ref = strings.TrimSpace(ref)
	if strings.Contains(ref, ".") {
		return s.resolveColRef(ref)
	}
	return columnOf(t, ref)
}

func (s *Session) cmdInsertInto(args string) error {
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.New("usage: insert into <table>")
	}
	table := s.ensureTable(name)
	s.setMode(modeInsert)
	s.insert = managers.NewInsertManager(table)
	s.printf("INSERT INTO %q", name)
	return nil
}

func (s *Session) cmdColumns(args string) error {
	if s.mode != modeInsert || s.insert == nil {
		return errors.New("columns command requires an active INSERT (use 'insert into <table>' first)")
	}
	var cols []any
	for _, p := range splitTopLevel(args) {
		col, err := s.targetColumn(s.insert.Statement.Into, p)
		if err != nil {
			return err
		}
		cols = append(cols, col)
	}
	s.insert.Columns(cols...)
	s.printf("Columns set (%d)", len(cols))
	return nil
}

// cmdValues sets the single row of the INSERT, replacing earlier values.
func (s *Session) cmdValues(args string) error {
	if s.mode != modeInsert || s.insert == nil {
		return errors.New("values command requires an active INSERT (use 'insert into <table>' first)")
	}
	var vals []any
	for _, p := range splitTopLevel(args) {
		v, err := s.parseExpr(p)
		if err != nil {
			return fmt.Errorf("values: %w", err)
		}
		vals = append(vals, v)
	}
	s.insert.Statement.Values = nil
	s.insert.Values(vals...)
	s.printf("Values set (%d values)", len(vals))
	return nil
}

func (s *Session) cmdUpdate(args string) error {
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.New("usage: update <table>")
	}
	table := s.ensureTable(name)
	s.setMode(modeUpdate)
	s.update = managers.NewUpdateManager(table)
	s.printf("UPDATE %q", name)
	return nil
}

// cmdSet parses "<col> = <expr>".
func (s *Session) cmdSet(args string) error {
	if s.mode != modeUpdate || s.update == nil {
		return errors.New("set command requires an active UPDATE (use 'update <table>' first)")
	}
	eq := strings.IndexByte(args, '=')
	if eq <= 0 {
		return errors.New("usage: set <col> = <expr>")
	}
	col, err := s.targetColumn(s.update.Statement.Table, args[:eq])
	if err != nil {
		return err
	}
	val, err := s.parseExpr(args[eq+1:])
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}
	s.update.Set(col, val)
	s.printf("SET %s added", strings.TrimSpace(args[:eq]))
	return nil
}

func (s *Session) cmdDeleteFrom(args string) error {
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.New("usage: delete from <table>")
	}
	table := s.ensureTable(name)
	s.setMode(modeDelete)
	s.del = managers.NewDeleteManager(table)
	s.printf("DELETE FROM %q", name)
	return nil
}
