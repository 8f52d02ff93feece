package plugins

import (
	"errors"
	"testing"

	"github.com/bawdo/sqlbuild/nodes"
)

func TestBaseTransformerReturnsInputUnchanged(t *testing.T) {
	t.Parallel()
	bt := BaseTransformer{}
	users := nodes.NewTable("users")

	core := &nodes.SelectCore{
		Projections: []nodes.Node{users.Col("id")},
		Wheres:      []nodes.Node{users.Col("active").Eq(true)},
	}
	if got, err := bt.TransformSelect(core); err != nil || got != core {
		t.Errorf("select: got %v, %v", got, err)
	}

	ins := &nodes.InsertStatement{
		Into:    users,
		Columns: []nodes.Node{users.Col("name")},
		Values:  []nodes.Node{nodes.Value("Alice")},
	}
	if got, err := bt.TransformInsert(ins); err != nil || got != ins {
		t.Errorf("insert: got %v, %v", got, err)
	}

	upd := &nodes.UpdateStatement{
		Table:       users,
		Assignments: []*nodes.AssignmentNode{nodes.Assign(users.Col("name"), "Bob")},
		Wheres:      []nodes.Node{users.Col("id").Eq(1)},
	}
	if got, err := bt.TransformUpdate(upd); err != nil || got != upd {
		t.Errorf("update: got %v, %v", got, err)
	}

	del := &nodes.DeleteStatement{From: users, Wheres: []nodes.Node{users.Col("id").Eq(1)}}
	if got, err := bt.TransformDelete(del); err != nil || got != del {
		t.Errorf("delete: got %v, %v", got, err)
	}
}

func TestBaseTransformerNilInputs(t *testing.T) {
	t.Parallel()
	bt := BaseTransformer{}

	if got, err := bt.TransformSelect(nil); err != nil || got != nil {
		t.Error("expected nil select to pass through")
	}
	if got, err := bt.TransformInsert(nil); err != nil || got != nil {
		t.Error("expected nil insert to pass through")
	}
	if got, err := bt.TransformUpdate(nil); err != nil || got != nil {
		t.Error("expected nil update to pass through")
	}
	if got, err := bt.TransformDelete(nil); err != nil || got != nil {
		t.Error("expected nil delete to pass through")
	}
}

type tagger struct {
	BaseTransformer
	tag string
	err error
}

func (tg *tagger) Name() string { return tg.tag }

func (tg *tagger) TransformSelect(c *nodes.SelectCore) (*nodes.SelectCore, error) {
	if tg.err != nil {
		return nil, tg.err
	}
	c.Comment += tg.tag
	return c, nil
}

func TestApplySelectRunsInOrder(t *testing.T) {
	t.Parallel()
	core := &nodes.SelectCore{}
	got, err := ApplySelect([]Transformer{&tagger{tag: "a"}, &tagger{tag: "b"}}, core)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Comment != "ab" {
		t.Errorf("expected transformers to run in order, got %q", got.Comment)
	}
}

func TestApplySelectNamesFailingPlugin(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	_, err := ApplySelect([]Transformer{&tagger{tag: "guard", err: boom}}, &nodes.SelectCore{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if err.Error() != "plugin guard: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestApplyPassesThroughOtherStatements(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	ts := []Transformer{BaseTransformer{}}
	del := &nodes.DeleteStatement{From: users}
	if got, err := ApplyDelete(ts, del); err != nil || got != del {
		t.Errorf("delete: got %v, %v", got, err)
	}
	upd := &nodes.UpdateStatement{Table: users}
	if got, err := ApplyUpdate(ts, upd); err != nil || got != upd {
		t.Errorf("update: got %v, %v", got, err)
	}
	ins := &nodes.InsertStatement{Into: users}
	if got, err := ApplyInsert(ts, ins); err != nil || got != ins {
		t.Errorf("insert: got %v, %v", got, err)
	}
}
