package debug

import (
	"io"

	"gopkg.in/yaml.v3"

	"simpl/lang/chunk"
)

// instructionDump is the YAML-serializable shape of one disassembled
// instruction, used by DumpYAML for tooling that wants a structured listing
// instead of the column-aligned text Disassemble produces.
type instructionDump struct {
	Offset   int    `yaml:"offset"`
	Line     int    `yaml:"line"`
	Op       string `yaml:"op"`
	Operand  *int   `yaml:"operand,omitempty"`
	Constant string `yaml:"constant,omitempty"`
}

type chunkDump struct {
	Name         string            `yaml:"name"`
	Instructions []instructionDump `yaml:"instructions"`
}

// DumpYAML writes the same information as Disassemble, structured as YAML
// for tooling that would rather not parse the column-aligned listing.
func DumpYAML(w io.Writer, c *chunk.Chunk, name string) error {
	dump := chunkDump{Name: name}

	for offset := 0; offset < len(c.Code); {
		op := chunk.OpCode(c.Code[offset])
		line := c.Lines[offset]
		width := op.OperandWidth()

		inst := instructionDump{Offset: offset, Line: line, Op: op.String()}
		switch {
		case op.IsJump():
			jump := int(c.ReadShort(offset + 1))
			inst.Operand = &jump
		case isConstantOp(op):
			idx := int(c.Code[offset+1])
			inst.Operand = &idx
			if idx < len(c.Constants) {
				inst.Constant = c.Constants[idx].String()
			}
		case width == 1:
			slot := int(c.Code[offset+1])
			inst.Operand = &slot
		}

		dump.Instructions = append(dump.Instructions, inst)
		offset += 1 + width
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(dump)
}
