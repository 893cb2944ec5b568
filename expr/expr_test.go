package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, e *Evaluator, s string) int32 {
	t.Helper()
	res, err := e.Evaluate(s, nil)
	require.NoError(t, err)
	return res.Value
}

func TestArithmeticPrecedence(t *testing.T) {
	e := New()
	require.EqualValues(t, 14, eval(t, e, "2+3*4"))
	require.EqualValues(t, 20, eval(t, e, "(2+3)*4"))
	require.EqualValues(t, 1, eval(t, e, "7%2%2"))
}

func TestUnaryOperators(t *testing.T) {
	e := New()
	require.EqualValues(t, -5, eval(t, e, "-5"))
	require.EqualValues(t, 5, eval(t, e, "- -5"))
	require.EqualValues(t, 1, eval(t, e, "!0"))
	require.EqualValues(t, 0, eval(t, e, "!5"))
}

func TestRelationalAndLogical(t *testing.T) {
	e := New()
	require.EqualValues(t, 1, eval(t, e, "3 < 5"))
	require.EqualValues(t, 0, eval(t, e, "5 < 3"))
	require.EqualValues(t, 1, eval(t, e, "1 && 1"))
	require.EqualValues(t, 0, eval(t, e, "1 && 0"))
	require.EqualValues(t, 1, eval(t, e, "0 || 1"))
}

func TestDivModByZero(t *testing.T) {
	e := New()
	_, err := e.Evaluate("5/0", nil)
	require.ErrorIs(t, err, ErrDivZero)
	_, err = e.Evaluate("5%0", nil)
	require.ErrorIs(t, err, ErrDivZero)
}

func TestRegisterAssignmentPersists(t *testing.T) {
	e := New()
	require.EqualValues(t, 10, eval(t, e, "A=10"))
	require.EqualValues(t, 15, eval(t, e, "A+5"))
	e.ResetRegisters()
	require.EqualValues(t, 0, eval(t, e, "A"))
}

func TestRegisterIsCaseInsensitiveSharedSlot(t *testing.T) {
	e := New()
	eval(t, e, "a=3")
	require.EqualValues(t, 3, eval(t, e, "A"))
}

func TestMultiCharIdentifierUsesResolver(t *testing.T) {
	e := New()
	resolve := func(name string) (int32, bool) {
		if name == "CORESIZE" {
			return 8000, true
		}
		return 0, false
	}
	res, err := e.Evaluate("CORESIZE/2", resolve)
	require.NoError(t, err)
	require.EqualValues(t, 4000, res.Value)
}

func TestUnresolvedIdentifierIsBadExpr(t *testing.T) {
	e := New()
	_, err := e.Evaluate("UNKNOWNID", nil)
	require.ErrorIs(t, err, ErrBadExpr)
}

func TestBadSyntax(t *testing.T) {
	e := New()
	_, err := e.Evaluate("(1+2", nil)
	require.ErrorIs(t, err, ErrBadExpr)
	_, err = e.Evaluate("1 2", nil)
	require.ErrorIs(t, err, ErrBadExpr)
}

func TestOverflowIsFlaggedNotFatal(t *testing.T) {
	e := New()
	res, err := e.Evaluate("2147483647+1", nil)
	require.NoError(t, err)
	require.True(t, res.Overflow)
}
