package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "''"},
		{"plain", "naruto", "naruto"},
		{"path", "/usr/bin/python3", "/usr/bin/python3"},
		{"space", "one piece", "'one piece'"},
		{"double quote", `say "hi"`, `'say "hi"'`},
		{"single quote", "it's", `'it'"'"'s'`},
		{"dollar", "$HOME", "'$HOME'"},
		{"semicolon", "a;b", "'a;b'"},
		{"newline", "a\nb", "'a\nb'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShellEscape(tt.input))
		})
	}
}

func TestShellEscapeCommand(t *testing.T) {
	got := ShellEscapeCommand("python3", "pahe-dl.py", "-n", "one piece", "-q", "1080")
	assert.Equal(t, "python3 pahe-dl.py -n 'one piece' -q 1080", got)
}
