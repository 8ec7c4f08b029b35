package expr

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leftmike/colcalc/engine"
	"github.com/leftmike/colcalc/types"
)

// CExpr is a compiled expression; params are the values of the column paths of the formula
// at one row and out is the current value of the column being computed.
type CExpr interface {
	fmt.Stringer
	Eval(params []types.Value, out types.Value) (types.Value, error)
}

func (l *Literal) Eval(params []types.Value, out types.Value) (types.Value, error) {
	return l.Value, nil
}

type param int

func (p param) String() string {
	return fmt.Sprintf("$%d", int(p)+1)
}

func (p param) Eval(params []types.Value, out types.Value) (types.Value, error) {
	if int(p) >= len(params) {
		return nil, fmt.Errorf("expr: missing parameter %s", p)
	}
	return params[p], nil
}

type outValue struct{}

func (_ outValue) String() string {
	return "OUT"
}

func (_ outValue) Eval(params []types.Value, out types.Value) (types.Value, error) {
	return out, nil
}

type call struct {
	call *callFunc
	args []CExpr
}

func (c *call) String() string {
	s := fmt.Sprintf("%s(", c.call.name)
	for i, a := range c.args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	s += ")"
	return s
}

func (c *call) Eval(params []types.Value, out types.Value) (types.Value, error) {
	args := make([]types.Value, len(c.args))
	for i, a := range c.args {
		var err error
		args[i], err = a.Eval(params, out)
		if err != nil {
			return nil, err
		} else if args[i] == nil && !c.call.handleNull {
			return nil, nil
		}
	}
	return c.call.fn(args)
}

// Formula is a compiled expression bound to the column paths it reads.
type Formula struct {
	expr  CExpr
	paths []engine.ColumnPath
}

func (f *Formula) String() string {
	return f.expr.String()
}

func (f *Formula) Evaluate(params []types.Value, out types.Value) (types.Value, error) {
	return f.expr.Eval(params, out)
}

func (f *Formula) ParameterPaths() []engine.ColumnPath {
	return f.paths
}

func (f *Formula) SetParameterPaths(paths []engine.ColumnPath) {
	f.paths = paths
}

func numFunc(a0 types.Value, a1 types.Value, ifn func(i0, i1 types.Int64Value) types.Value,
	ffn func(f0, f1 types.Float64Value) types.Value) (types.Value, error) {

	switch a0 := a0.(type) {
	case types.Float64Value:
		switch a1 := a1.(type) {
		case types.Float64Value:
			return ffn(a0, a1), nil
		case types.Int64Value:
			return ffn(a0, types.Float64Value(a1)), nil
		}
	case types.Int64Value:
		switch a1 := a1.(type) {
		case types.Float64Value:
			return ffn(types.Float64Value(a0), a1), nil
		case types.Int64Value:
			return ifn(a0, a1), nil
		}
	default:
		return nil, fmt.Errorf("expr: want number got %v", types.Format(a0))
	}
	return nil, fmt.Errorf("expr: want number got %v", types.Format(a1))
}

// boolArg returns the value of a and whether a is not NULL.
func boolArg(a types.Value) (bool, bool, error) {
	if a == nil {
		return false, false, nil
	}
	b, ok := a.(types.BoolValue)
	if !ok {
		return false, false, fmt.Errorf("expr: want boolean got %v", types.Format(a))
	}
	return bool(b), true, nil
}

func compareArgs(a0, a1 types.Value) (int, error) {
	cmp, err := a0.Compare(a1)
	if err != nil {
		return 0, fmt.Errorf("expr: %s", err)
	}
	return cmp, nil
}

func addCall(args []types.Value) (types.Value, error) {
	return numFunc(args[0], args[1],
		func(i0, i1 types.Int64Value) types.Value {
			return i0 + i1
		},
		func(f0, f1 types.Float64Value) types.Value {
			return f0 + f1
		})
}

// andCall: false AND NULL is false; true AND NULL is NULL.
func andCall(args []types.Value) (types.Value, error) {
	b0, ok0, err := boolArg(args[0])
	if err != nil {
		return nil, err
	}
	b1, ok1, err := boolArg(args[1])
	if err != nil {
		return nil, err
	}
	if (ok0 && !b0) || (ok1 && !b1) {
		return types.BoolValue(false), nil
	}
	if !ok0 || !ok1 {
		return nil, nil
	}
	return types.BoolValue(true), nil
}

func orCall(args []types.Value) (types.Value, error) {
	b0, ok0, err := boolArg(args[0])
	if err != nil {
		return nil, err
	}
	b1, ok1, err := boolArg(args[1])
	if err != nil {
		return nil, err
	}
	if (ok0 && b0) || (ok1 && b1) {
		return types.BoolValue(true), nil
	}
	if !ok0 || !ok1 {
		return nil, nil
	}
	return types.BoolValue(false), nil
}

func concatCall(args []types.Value) (types.Value, error) {
	var s strings.Builder
	for _, a := range args {
		switch v := a.(type) {
		case nil:
		case types.StringValue:
			s.WriteString(string(v))
		default:
			s.WriteString(v.String())
		}
	}
	return types.StringValue(s.String()), nil
}

func divideCall(args []types.Value) (types.Value, error) {
	if i1, ok := args[1].(types.Int64Value); ok && i1 == 0 {
		if _, ok := args[0].(types.Int64Value); ok {
			return nil, fmt.Errorf("expr: division by zero")
		}
	}
	return numFunc(args[0], args[1],
		func(i0, i1 types.Int64Value) types.Value {
			return i0 / i1
		},
		func(f0, f1 types.Float64Value) types.Value {
			return f0 / f1
		})
}

func equalCall(args []types.Value) (types.Value, error) {
	cmp, err := compareArgs(args[0], args[1])
	if err != nil {
		return nil, err
	}
	return types.BoolValue(cmp == 0), nil
}

func greaterEqualCall(args []types.Value) (types.Value, error) {
	cmp, err := compareArgs(args[0], args[1])
	if err != nil {
		return nil, err
	}
	return types.BoolValue(cmp >= 0), nil
}

func greaterThanCall(args []types.Value) (types.Value, error) {
	cmp, err := compareArgs(args[0], args[1])
	if err != nil {
		return nil, err
	}
	return types.BoolValue(cmp > 0), nil
}

func lessEqualCall(args []types.Value) (types.Value, error) {
	cmp, err := compareArgs(args[0], args[1])
	if err != nil {
		return nil, err
	}
	return types.BoolValue(cmp <= 0), nil
}

func lessThanCall(args []types.Value) (types.Value, error) {
	cmp, err := compareArgs(args[0], args[1])
	if err != nil {
		return nil, err
	}
	return types.BoolValue(cmp < 0), nil
}

func moduloCall(args []types.Value) (types.Value, error) {
	if a0, ok := args[0].(types.Int64Value); ok {
		if a1, ok := args[1].(types.Int64Value); ok {
			if a1 == 0 {
				return nil, fmt.Errorf("expr: division by zero")
			}
			return a0 % a1, nil
		}
		return nil, fmt.Errorf("expr: want integer got %v", types.Format(args[1]))
	}
	return nil, fmt.Errorf("expr: want integer got %v", types.Format(args[0]))
}

func multiplyCall(args []types.Value) (types.Value, error) {
	return numFunc(args[0], args[1],
		func(i0, i1 types.Int64Value) types.Value {
			return i0 * i1
		},
		func(f0, f1 types.Float64Value) types.Value {
			return f0 * f1
		})
}

func negateCall(args []types.Value) (types.Value, error) {
	switch a0 := args[0].(type) {
	case types.Float64Value:
		return -a0, nil
	case types.Int64Value:
		return -a0, nil
	}
	return nil, fmt.Errorf("expr: want number got %v", types.Format(args[0]))
}

func notEqualCall(args []types.Value) (types.Value, error) {
	cmp, err := compareArgs(args[0], args[1])
	if err != nil {
		return nil, err
	}
	return types.BoolValue(cmp != 0), nil
}

func notCall(args []types.Value) (types.Value, error) {
	if a0, ok := args[0].(types.BoolValue); ok {
		return !a0, nil
	}
	return nil, fmt.Errorf("expr: want boolean got %v", types.Format(args[0]))
}

func subtractCall(args []types.Value) (types.Value, error) {
	return numFunc(args[0], args[1],
		func(i0, i1 types.Int64Value) types.Value {
			return i0 - i1
		},
		func(f0, f1 types.Float64Value) types.Value {
			return f0 - f1
		})
}

func absCall(args []types.Value) (types.Value, error) {
	switch a0 := args[0].(type) {
	case types.Float64Value:
		if a0 < 0 {
			return -a0, nil
		}
		return a0, nil
	case types.Int64Value:
		if a0 < 0 {
			return -a0, nil
		}
		return a0, nil
	}
	return nil, fmt.Errorf("expr: want number got %v", types.Format(args[0]))
}

func coalesceCall(args []types.Value) (types.Value, error) {
	for _, a := range args {
		if a != nil {
			return a, nil
		}
	}
	return nil, nil
}

// ifCall: a NULL condition selects the else value.
func ifCall(args []types.Value) (types.Value, error) {
	b, ok, err := boolArg(args[0])
	if err != nil {
		return nil, err
	}
	if ok && b {
		return args[1], nil
	}
	return args[2], nil
}

func isNullCall(args []types.Value) (types.Value, error) {
	return types.BoolValue(args[0] == nil), nil
}

func lengthCall(args []types.Value) (types.Value, error) {
	switch a0 := args[0].(type) {
	case types.StringValue:
		return types.Int64Value(utf8.RuneCountInString(string(a0))), nil
	case types.BytesValue:
		return types.Int64Value(len(a0)), nil
	}
	return nil, fmt.Errorf("expr: want string or bytes got %v", types.Format(args[0]))
}

func lowerCall(args []types.Value) (types.Value, error) {
	if s, ok := args[0].(types.StringValue); ok {
		return types.StringValue(strings.ToLower(string(s))), nil
	}
	return nil, fmt.Errorf("expr: want string got %v", types.Format(args[0]))
}

func upperCall(args []types.Value) (types.Value, error) {
	if s, ok := args[0].(types.StringValue); ok {
		return types.StringValue(strings.ToUpper(string(s))), nil
	}
	return nil, fmt.Errorf("expr: want string got %v", types.Format(args[0]))
}

func extremeCall(args []types.Value, want int) (types.Value, error) {
	var ret types.Value
	for _, a := range args {
		if a == nil {
			continue
		}
		if ret == nil {
			ret = a
			continue
		}
		cmp, err := compareArgs(a, ret)
		if err != nil {
			return nil, err
		}
		if cmp == want {
			ret = a
		}
	}
	return ret, nil
}

// minCall and maxCall ignore NULL arguments.
func minCall(args []types.Value) (types.Value, error) {
	return extremeCall(args, -1)
}

func maxCall(args []types.Value) (types.Value, error) {
	return extremeCall(args, 1)
}
