package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpcodeRoundTrip(t *testing.T) {
	for op, name := range opcodeNames {
		byName, ok := OpcodeByName(name)
		require.True(t, ok, "lookup of %s", name)
		assert.Equal(t, op, byName)

		byValue, ok := OpcodeByValue(int(op))
		require.True(t, ok)
		assert.Equal(t, name, byValue.String())
	}
}

func TestOpcodeByNameCaseInsensitive(t *testing.T) {
	for _, name := range []string{"cmd", "Cmd", "CMD", "update_config", "Update_Config"} {
		_, ok := OpcodeByName(name)
		assert.True(t, ok, "expected %q to resolve", name)
	}
}

func TestOpcodeUnknown(t *testing.T) {
	_, ok := OpcodeByName("FORMAT_DISK")
	assert.False(t, ok)

	_, ok = OpcodeByValue(0x99)
	assert.False(t, ok)

	assert.False(t, Opcode(0).Valid())
	assert.Equal(t, "Opcode(153)", Opcode(0x99).String())
}
