package expr

import (
	"fmt"
	"math"

	"github.com/leftmike/colcalc/engine"
	"github.com/leftmike/colcalc/types"
)

type CompileContext interface {
	CompileRef(r Ref) (int, error)
}

func Compile(ctx CompileContext, e Expr) (CExpr, error) {
	switch e := e.(type) {
	case *Literal:
		return e, nil
	case *Unary:
		if e.Op == NoOp {
			return Compile(ctx, e.Expr)
		}
		a1, err := Compile(ctx, e.Expr)
		if err != nil {
			return nil, err
		}
		return &call{opFuncs[e.Op], []CExpr{a1}}, nil
	case *Binary:
		a1, err := Compile(ctx, e.Left)
		if err != nil {
			return nil, err
		}
		a2, err := Compile(ctx, e.Right)
		if err != nil {
			return nil, err
		}
		return &call{opFuncs[e.Op], []CExpr{a1, a2}}, nil
	case Ref:
		if ctx == nil {
			return nil, fmt.Errorf("expr: reference %s not allowed", e)
		}
		idx, err := ctx.CompileRef(e)
		if err != nil {
			return nil, err
		}
		return param(idx), nil
	case Out:
		return outValue{}, nil
	case *Call:
		cf, ok := idFuncs[e.Name]
		if !ok {
			return nil, fmt.Errorf("expr: function \"%s\" not found", e.Name)
		}
		if len(e.Args) < int(cf.minArgs) {
			return nil, fmt.Errorf("expr: function \"%s\": minimum %d arguments got %d",
				e.Name, cf.minArgs, len(e.Args))
		}
		if len(e.Args) > int(cf.maxArgs) {
			return nil, fmt.Errorf("expr: function \"%s\": maximum %d arguments got %d",
				e.Name, cf.maxArgs, len(e.Args))
		}

		args := make([]CExpr, len(e.Args))
		for i, a := range e.Args {
			var err error
			args[i], err = Compile(ctx, a)
			if err != nil {
				return nil, err
			}
		}
		return &call{cf, args}, nil
	default:
		panic(fmt.Sprintf("unexpected expr: %T: %v", e, e))
	}
}

// Const evaluates an expression which does not refer to any columns.
func Const(e Expr) (types.Value, error) {
	ce, err := Compile(nil, e)
	if err != nil {
		return nil, err
	}
	return ce.Eval(nil, nil)
}

type binder struct {
	schema *engine.Schema
	tid    engine.TableID
	paths  []engine.ColumnPath
}

func (b *binder) CompileRef(r Ref) (int, error) {
	cp, err := b.schema.ResolvePath(b.tid, r.Names())
	if err != nil {
		return 0, err
	}
	for idx, p := range b.paths {
		if p.Equal(cp) {
			return idx, nil
		}
	}
	b.paths = append(b.paths, cp)
	return len(b.paths) - 1, nil
}

// Bind compiles e against the table tid of s; each distinct column path referenced by e
// becomes one parameter of the resulting formula.
func Bind(s *engine.Schema, tid engine.TableID, e Expr) (*Formula, error) {
	b := binder{
		schema: s,
		tid:    tid,
	}
	ce, err := Compile(&b, e)
	if err != nil {
		return nil, err
	}
	return &Formula{
		expr:  ce,
		paths: b.paths,
	}, nil
}

type callFunc struct {
	fn         func(args []types.Value) (types.Value, error)
	minArgs    int16
	maxArgs    int16
	name       string
	handleNull bool
}

var opFuncs = map[Op]*callFunc{
	AddOp:          {fn: addCall, minArgs: 2, maxArgs: 2},
	AndOp:          {fn: andCall, minArgs: 2, maxArgs: 2, handleNull: true},
	ConcatOp:       {fn: concatCall, minArgs: 2, maxArgs: 2},
	DivideOp:       {fn: divideCall, minArgs: 2, maxArgs: 2},
	EqualOp:        {fn: equalCall, minArgs: 2, maxArgs: 2},
	GreaterEqualOp: {fn: greaterEqualCall, minArgs: 2, maxArgs: 2},
	GreaterThanOp:  {fn: greaterThanCall, minArgs: 2, maxArgs: 2},
	LessEqualOp:    {fn: lessEqualCall, minArgs: 2, maxArgs: 2},
	LessThanOp:     {fn: lessThanCall, minArgs: 2, maxArgs: 2},
	ModuloOp:       {fn: moduloCall, minArgs: 2, maxArgs: 2},
	MultiplyOp:     {fn: multiplyCall, minArgs: 2, maxArgs: 2},
	NegateOp:       {fn: negateCall, minArgs: 1, maxArgs: 1},
	NotEqualOp:     {fn: notEqualCall, minArgs: 2, maxArgs: 2},
	NotOp:          {fn: notCall, minArgs: 1, maxArgs: 1},
	OrOp:           {fn: orCall, minArgs: 2, maxArgs: 2, handleNull: true},
	SubtractOp:     {fn: subtractCall, minArgs: 2, maxArgs: 2},
}

var idFuncs = map[types.Identifier]*callFunc{
	types.ID("abs"):      {fn: absCall, minArgs: 1, maxArgs: 1},
	types.ID("coalesce"): {fn: coalesceCall, minArgs: 1, maxArgs: math.MaxInt16, handleNull: true},
	types.ID("concat"):   {fn: concatCall, minArgs: 2, maxArgs: math.MaxInt16, handleNull: true},
	types.ID("if"):       {fn: ifCall, minArgs: 3, maxArgs: 3, handleNull: true},
	types.ID("is_null"):  {fn: isNullCall, minArgs: 1, maxArgs: 1, handleNull: true},
	types.ID("length"):   {fn: lengthCall, minArgs: 1, maxArgs: 1},
	types.ID("lower"):    {fn: lowerCall, minArgs: 1, maxArgs: 1},
	types.ID("max"):      {fn: maxCall, minArgs: 1, maxArgs: math.MaxInt16, handleNull: true},
	types.ID("min"):      {fn: minCall, minArgs: 1, maxArgs: math.MaxInt16, handleNull: true},
	types.ID("upper"):    {fn: upperCall, minArgs: 1, maxArgs: 1},
}

func init() {
	for op, cf := range opFuncs {
		cf.name = fmt.Sprintf("\"%s\"", op)
		if op == NegateOp || op == NotOp {
			if cf.minArgs != 1 || cf.maxArgs != 1 {
				panic(fmt.Sprintf("opFuncs[%s]: minArgs != 1 || maxArgs != 1", op))
			}
		} else {
			if cf.minArgs != 2 || cf.maxArgs != 2 {
				panic(fmt.Sprintf("opFuncs[%s]: minArgs != 2 || maxArgs != 2", op))
			}
		}
	}

	for id, cf := range idFuncs {
		cf.name = id.String()
		if cf.minArgs < 0 || cf.maxArgs < cf.minArgs {
			panic(fmt.Sprintf("idFuncs[%s]: minArgs < 0 || maxArgs < minArgs", id))
		}
	}
}
