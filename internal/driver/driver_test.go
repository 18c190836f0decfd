package driver_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"

	"simpl/internal/driver"
)

func newStdio(stdin string) (mainer.Stdio, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return mainer.Stdio{
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &errOut,
	}, &out, &errOut
}

func TestRunFileSuccessExitsZero(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/ok.simpl"
	assert.NoError(t, writeFile(path, `print 1 + 2;`))

	stdio, out, _ := newStdio("")
	c := &driver.Cmd{}
	code := c.Main([]string{"simpl", path}, stdio)
	assert.Equal(t, driver.ExitOK, code)
	assert.Equal(t, "3\n", out.String())
}

func TestRunFileCompileErrorExits65(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.simpl"
	assert.NoError(t, writeFile(path, `var;`))

	stdio, _, errOut := newStdio("")
	c := &driver.Cmd{}
	code := c.Main([]string{"simpl", path}, stdio)
	assert.Equal(t, driver.ExitCompileError, code)
	assert.Contains(t, errOut.String(), "Expect variable name.")
}

func TestRunFileRuntimeErrorExits70(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/runtime.simpl"
	assert.NoError(t, writeFile(path, `print undeclared;`))

	stdio, _, errOut := newStdio("")
	c := &driver.Cmd{}
	code := c.Main([]string{"simpl", path}, stdio)
	assert.Equal(t, driver.ExitRuntimeError, code)
	assert.Contains(t, errOut.String(), "Undefined variable")
}

func TestTooManyArgsExits64(t *testing.T) {
	stdio, _, _ := newStdio("")
	c := &driver.Cmd{}
	code := c.Main([]string{"simpl", "a.simpl", "b.simpl"}, stdio)
	assert.Equal(t, driver.ExitUsage, code)
}

func TestReplEvaluatesEachLineAndKeepsGlobals(t *testing.T) {
	stdio, out, _ := newStdio("var a = 1;\nprint a;\n")
	c := &driver.Cmd{}
	code := c.Main([]string{"simpl"}, stdio)
	assert.Equal(t, driver.ExitOK, code)
	assert.Contains(t, out.String(), "1\n")
}

func TestDumpTextPrintsDisassemblyInsteadOfRunning(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/dump.simpl"
	assert.NoError(t, writeFile(path, `print 1 + 2;`))

	stdio, out, _ := newStdio("")
	c := &driver.Cmd{Dump: "text"}
	code := c.Main([]string{"simpl", path}, stdio)
	assert.Equal(t, driver.ExitOK, code)
	assert.NotContains(t, out.String(), "3\n")
	assert.Contains(t, out.String(), "OP_ADD")
}

func TestDumpYAMLPrintsStructuredListing(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/dump.simpl"
	assert.NoError(t, writeFile(path, `print 1;`))

	stdio, out, _ := newStdio("")
	c := &driver.Cmd{Dump: "yaml"}
	code := c.Main([]string{"simpl", path}, stdio)
	assert.Equal(t, driver.ExitOK, code)
	assert.Contains(t, out.String(), "instructions:")
}

func TestDumpRequiresAPath(t *testing.T) {
	stdio, _, _ := newStdio("")
	c := &driver.Cmd{Dump: "text"}
	code := c.Main([]string{"simpl"}, stdio)
	assert.Equal(t, driver.ExitUsage, code)
}

func TestReplBytecodeCommandDisassemblesWithoutRunning(t *testing.T) {
	stdio, out, _ := newStdio(":bytecode print 1 + 2;\n")
	c := &driver.Cmd{}
	code := c.Main([]string{"simpl"}, stdio)
	assert.Equal(t, driver.ExitOK, code)
	assert.NotContains(t, out.String(), "3\n")
	assert.Contains(t, out.String(), "OP_ADD")
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
