package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Filter operators understood by the server
const (
	OpEq  = "Eq"
	OpNe  = "Ne"
	OpLt  = "Lt"
	OpLe  = "Le"
	OpGt  = "Gt"
	OpGe  = "Ge"
	OpAnd = "And"
	OpOr  = "Or"
	OpNot = "Not"
)

const (
	tagCol = "Col"
	tagVal = "Val"
)

var binaryOps = map[string]bool{
	OpEq: true, OpNe: true, OpLt: true, OpLe: true, OpGt: true, OpGe: true,
	OpAnd: true, OpOr: true,
}

// Value is a typed literal, encoded as {"Integer": 18}, {"String": "x"}, ... or "Null"
type Value struct {
	Kind string
	Data any
}

// Value kinds
const (
	KindInteger = "Integer"
	KindFloat   = "Float"
	KindString  = "String"
	KindBool    = "Bool"
	KindNull    = "Null"
)

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindNull {
		return json.Marshal(KindNull)
	}
	return json.Marshal(map[string]any{v.Kind: v.Data})
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != KindNull {
			return fmt.Errorf("unknown value %q", s)
		}
		*v = Value{Kind: KindNull}
		return nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("value must be an object or \"Null\": %w", err)
	}
	if len(m) != 1 {
		return fmt.Errorf("value must have exactly one kind, got %d", len(m))
	}
	for kind, raw := range m {
		var err error
		switch kind {
		case KindInteger:
			var n int64
			err = json.Unmarshal(raw, &n)
			*v = Value{Kind: kind, Data: n}
		case KindFloat:
			var f float64
			err = json.Unmarshal(raw, &f)
			*v = Value{Kind: kind, Data: f}
		case KindString:
			var str string
			err = json.Unmarshal(raw, &str)
			*v = Value{Kind: kind, Data: str}
		case KindBool:
			var b bool
			err = json.Unmarshal(raw, &b)
			*v = Value{Kind: kind, Data: b}
		default:
			return fmt.Errorf("unknown value kind %q", kind)
		}
		if err != nil {
			return fmt.Errorf("bad %s value: %w", kind, err)
		}
	}
	return nil
}

// Int, Float, Str, Bool and Null build literals
func Int(n int64) Value     { return Value{Kind: KindInteger, Data: n} }
func Float(f float64) Value { return Value{Kind: KindFloat, Data: f} }
func Str(s string) Value    { return Value{Kind: KindString, Data: s} }
func Bool(b bool) Value     { return Value{Kind: KindBool, Data: b} }
func Null() Value           { return Value{Kind: KindNull} }

// Expr is a node of a filter expression tree
type Expr struct {
	Op   string  // operator, empty for leaves
	Args []*Expr // operands of Op
	Col  string  // column reference leaf
	Val  *Value  // literal leaf
}

// Col references a column by name
func Col(name string) *Expr { return &Expr{Col: name} }

// Lit wraps a literal value
func Lit(v Value) *Expr { return &Expr{Val: &v} }

func binary(op string, l, r *Expr) *Expr { return &Expr{Op: op, Args: []*Expr{l, r}} }

func Eq(l, r *Expr) *Expr  { return binary(OpEq, l, r) }
func Ne(l, r *Expr) *Expr  { return binary(OpNe, l, r) }
func Lt(l, r *Expr) *Expr  { return binary(OpLt, l, r) }
func Le(l, r *Expr) *Expr  { return binary(OpLe, l, r) }
func Gt(l, r *Expr) *Expr  { return binary(OpGt, l, r) }
func Ge(l, r *Expr) *Expr  { return binary(OpGe, l, r) }
func And(l, r *Expr) *Expr { return binary(OpAnd, l, r) }
func Or(l, r *Expr) *Expr  { return binary(OpOr, l, r) }

// Not negates e
func Not(e *Expr) *Expr { return &Expr{Op: OpNot, Args: []*Expr{e}} }

func (e *Expr) MarshalJSON() ([]byte, error) {
	switch {
	case e.Op == OpNot:
		if len(e.Args) != 1 {
			return nil, fmt.Errorf("%s takes 1 operand, got %d", OpNot, len(e.Args))
		}
		return json.Marshal(map[string]*Expr{OpNot: e.Args[0]})
	case e.Op != "":
		if !binaryOps[e.Op] {
			return nil, fmt.Errorf("unknown operator %q", e.Op)
		}
		if len(e.Args) != 2 {
			return nil, fmt.Errorf("%s takes 2 operands, got %d", e.Op, len(e.Args))
		}
		return json.Marshal(map[string][]*Expr{e.Op: e.Args})
	case e.Val != nil:
		return json.Marshal(map[string]Value{tagVal: *e.Val})
	case e.Col != "":
		return json.Marshal(map[string]string{tagCol: e.Col})
	default:
		return nil, fmt.Errorf("empty expression")
	}
}

func (e *Expr) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("expression must be an object: %w", err)
	}
	if len(m) != 1 {
		return fmt.Errorf("expression must have exactly one key, got %d", len(m))
	}

	for key, raw := range m {
		switch {
		case key == tagCol:
			var name string
			if err := json.Unmarshal(raw, &name); err != nil {
				return fmt.Errorf("bad column: %w", err)
			}
			*e = Expr{Col: name}
		case key == tagVal:
			var v Value
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			*e = Expr{Val: &v}
		case key == OpNot:
			var inner Expr
			if err := json.Unmarshal(raw, &inner); err != nil {
				return err
			}
			*e = Expr{Op: OpNot, Args: []*Expr{&inner}}
		case binaryOps[key]:
			var args []*Expr
			if err := json.Unmarshal(raw, &args); err != nil {
				return err
			}
			if len(args) != 2 {
				return fmt.Errorf("%s takes 2 operands, got %d", key, len(args))
			}
			*e = Expr{Op: key, Args: args}
		default:
			return fmt.Errorf("unknown expression %q", key)
		}
	}
	return nil
}

// ParseFilter decodes a filter given as JSON text. Empty input means no filter.
func ParseFilter(text string) (*Expr, error) {
	if len(bytes.TrimSpace([]byte(text))) == 0 {
		return nil, nil
	}
	var e Expr
	if err := json.Unmarshal([]byte(text), &e); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return &e, nil
}
