package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpl/lang/vm"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	m := vm.New(&out)
	_, err := m.Interpret(src)
	return out.String(), err
}

func TestArithmeticPrecedenceAndPrint(t *testing.T) {
	out, err := run(t, "print 1 + 2 * 3;")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestGlobalVariableAssignmentPersists(t *testing.T) {
	out, err := run(t, "var a = 1; a = a + 1; print a;")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestLocalVariableScoping(t *testing.T) {
	out, err := run(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	require.NoError(t, err)
	assert.Equal(t, "inner\nouter\n", out)
}

func TestShadowingInitializerReadsEnclosingBinding(t *testing.T) {
	out, err := run(t, `
		{
			var x = 10;
			{
				var x = x + 1;
				print x;
			}
			print x;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "11\n10\n", out)
}

func TestIfElseBranches(t *testing.T) {
	out, err := run(t, `
		if (1 < 2) { print "yes"; } else { print "no"; }
		if (1 > 2) { print "yes"; } else { print "no"; }
	`)
	require.NoError(t, err)
	assert.Equal(t, "yes\nno\n", out)
}

func TestWhileLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestForLoop(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) {
			print i;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestAndOrShortCircuit(t *testing.T) {
	out, err := run(t, `
		print false and undeclared;
		print true or undeclared;
	`)
	require.NoError(t, err)
	assert.Equal(t, "false\ntrue\n", out)
}

func TestUndefinedGlobalReadIsRuntimeError(t *testing.T) {
	_, err := run(t, "print undeclared;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'undeclared'.")
	assert.Contains(t, err.Error(), "[line 1] in script")
}

func TestAssigningUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := run(t, "undeclared = 1;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'undeclared'.")
}

func TestTypeErrorOnArithmeticWithNonNumber(t *testing.T) {
	_, err := run(t, `print 1 + "x";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operands must be two numbers or two strings.")
}

func TestNegateNonNumberIsRuntimeError(t *testing.T) {
	_, err := run(t, `print -"x";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operand must be a number.")
}

func TestReplReusesGlobalsAcrossInterpretCalls(t *testing.T) {
	var out bytes.Buffer
	m := vm.New(&out)

	_, err := m.Interpret("var a = 1;")
	require.NoError(t, err)
	_, err = m.Interpret("print a;")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out.String())
}

func TestCompileErrorDoesNotRunAnyCode(t *testing.T) {
	out, err := run(t, "var;")
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestWithMaxLocalsLowersLocalLimit(t *testing.T) {
	var out bytes.Buffer
	m := vm.New(&out, vm.WithMaxLocals(1))

	_, err := m.Interpret("{ var a = 1; var b = 2; print a + b; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Too many local variables")
}

func TestWithStackSizeDefaultsAboveCapAreClamped(t *testing.T) {
	var out bytes.Buffer
	m := vm.New(&out, vm.WithStackSize(10000))

	_, err := m.Interpret("print 1 + 1;")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out.String())
}
