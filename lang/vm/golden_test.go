package vm_test

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"simpl/internal/filetest"
	"simpl/lang/vm"
)

var testUpdateVMTests = flag.Bool("test.update-vm-tests", false, "If set, replace expected VM test results with actual results.")

func TestInterpretGoldenFiles(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".simpl") {
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			if err != nil {
				t.Fatal(err)
			}

			var out bytes.Buffer
			m := vm.New(&out)
			if _, err := m.Interpret(string(src)); err != nil {
				t.Fatal(err)
			}

			filetest.DiffOutput(t, fi, out.String(), resultDir, testUpdateVMTests)
		})
	}
}
