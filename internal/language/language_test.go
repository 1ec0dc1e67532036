package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_ExplicitWins(t *testing.T) {
	assert.Equal(t, "rust", Detect("main.py", "rust"))
	assert.Equal(t, "python", Detect("", "python"))
}

func TestDetect_ByExtension(t *testing.T) {
	cases := map[string]string{
		"app.js":        "javascript",
		"App.JSX":       "javascript",
		"index.ts":      "javascript",
		"widget.tsx":    "javascript",
		"train.py":      "python",
		"solver.cpp":    "cpp",
		"solver.cc":     "cpp",
		"solver.cxx":    "cpp",
		"solver.hpp":    "cpp",
		"Main.java":     "java",
		"Program.cs":    "csharp",
		"index.php":     "php",
		"app.rb":        "ruby",
		"main.go":       "go",
		"archive.tar":   Plaintext,
		"README":        Plaintext,
		"no_extension.": Plaintext,
	}
	for name, want := range cases {
		assert.Equal(t, want, Detect(name, ""), "filename %q", name)
	}
}

func TestDetect_EmptyInputs(t *testing.T) {
	assert.Equal(t, Plaintext, Detect("", ""))
}
