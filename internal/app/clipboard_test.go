package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPaste(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "buy milk", "buy milk"},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"control characters", "x\x00y\x1bz\tw", "xyz\tw"},
		{"rtf paragraphs", "{\\rtf1 hello\\par world}", "hello\nworld"},
		{"rtf tables and escapes", "{\\rtf1\\ansi{\\fonttbl\\f0 Helvetica;}\\f0 Caf\\'e9 \\{x\\}}", "Café {x}"},
		{"rtf ignorable destination", "{\\rtf1{\\*\\generator Writer;}Hi}", "Hi"},
		{"not rtf", "see \\par here", "see \\par here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanPaste(tt.in))
		})
	}
}
