package feedparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Pick a color", "Pick a color"},
		{"trims", "  spaced out \t", "spaced out"},
		{"escaped quote", `Say \"hi\" now`, `Say "hi" now`},
		{"escaped backslash", `a\\b`, `a\b`},
		{"escaped backslash before letter escape", `C:\\temp`, `C:\\temp`},
		{"escaped backslash before newline escape", `x\\\ny`, "x\\\ny"},
		{"newline", `line one\nline two`, "line one\nline two"},
		{"tab", `a\tb`, "a\tb"},
		{"unicode double quote", `the \u0022best\u0022 one`, `the "best" one`},
		{"unicode apostrophe", `it\u0027s`, "it's"},
		{"escaped backslash before escaped quote", `\\\"x`, `\\"x`},
		{"consecutive unicode quotes", `\u0022\u0022n`, `""n`},
		{"lone backslash", `50\ off`, `50\ off`},
		{"trailing backslash", `ends\`, `ends\`},
		{"empty", "", ""},
		{"only whitespace", " \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_SinglePass(t *testing.T) {
	// Each escape is decoded once: a backslash produced by \\ never joins
	// the following text into a second escape.
	for _, in := range []string{`\\n`, `\\t`, `\\\\`, `\\u0022`, `\\\u0022`} {
		out := Normalize(in)
		assert.NotContains(t, out, "\n", "input %q", in)
		assert.NotContains(t, out, "\t", "input %q", in)
		assert.NotEqual(t, `"`, out, "input %q", in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		`\\\\n`,
		`\\"`,
		`a\\\\\\"b`,
		`\\u0022`,
		`\ u0022`,
		" \\n x \\n ",
		`already "clean" text`,
		`\`,
		`C:\\temp`,
		`\\\"x`,
		`\\\n`,
		`\\\\\\`,
		`x\u0027\\`,
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func FuzzNormalize(f *testing.F) {
	for _, seed := range []string{
		"", `Say \"hi\"`, `\\\\\\n`, `\u0022\u0027`, " \t\n", `\\u0022`, "plain",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}
