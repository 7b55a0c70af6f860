package models

import (
	"fmt"
	"strings"
)

// Opcode identifies the kind of instruction a task carries. The set is closed
// and the numeric values are part of the wire format.
type Opcode int

const (
	OpCmd          Opcode = 0x01 // run a command line
	OpSelfDestruct Opcode = 0x02 // delete self and shut down
	OpSysinfo      Opcode = 0x03 // collect system information
	OpSleep        Opcode = 0x04 // change the sleep interval
	OpUpdateConfig Opcode = 0x05 // update the maleable config
	OpDownload     Opcode = 0x06 // pull a file from the implant
	OpUpload       Opcode = 0x07 // push a file to the implant
	OpInject       Opcode = 0x08 // inject a DLL into a process
)

var opcodeNames = map[Opcode]string{
	OpCmd:          "CMD",
	OpSelfDestruct: "SELFDESTRUCT",
	OpSysinfo:      "SYSINFO",
	OpSleep:        "SLEEP",
	OpUpdateConfig: "UPDATE_CONFIG",
	OpDownload:     "DOWNLOAD",
	OpUpload:       "UPLOAD",
	OpInject:       "INJECT",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// Valid reports whether op is one of the defined opcodes.
func (op Opcode) Valid() bool {
	_, ok := opcodeNames[op]
	return ok
}

// OpcodeByName resolves an opcode from its name. Lookup is case-insensitive.
func OpcodeByName(name string) (Opcode, bool) {
	for op, n := range opcodeNames {
		if strings.EqualFold(n, name) {
			return op, true
		}
	}
	return 0, false
}

// OpcodeByValue resolves an opcode from its numeric wire value.
func OpcodeByValue(value int) (Opcode, bool) {
	op := Opcode(value)
	return op, op.Valid()
}
