// Package language maps file names to canonical language tags.
package language

import (
	"path/filepath"
	"strings"
)

// Plaintext is the tag used when no known source extension matches.
const Plaintext = "plaintext"

var byExtension = map[string]string{
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "javascript",
	".tsx":  "javascript",
	".py":   "python",
	".cpp":  "cpp",
	".cc":   "cpp",
	".cxx":  "cpp",
	".hpp":  "cpp",
	".java": "java",
	".cs":   "csharp",
	".php":  "php",
	".rb":   "ruby",
	".go":   "go",
}

// Detect resolves the language tag for a submission. An explicit tag wins
// unchanged; otherwise the file extension is matched case-insensitively
// against the known table. Anything else, including an empty filename,
// resolves to Plaintext.
func Detect(filename, explicit string) string {
	if explicit != "" {
		return explicit
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if tag, ok := byExtension[ext]; ok {
		return tag
	}
	return Plaintext
}
