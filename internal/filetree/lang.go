package filetree

import (
	"path/filepath"
	"strings"
)

var languagesByExt = map[string]string{
	".js":       "javascript",
	".jsx":      "javascript",
	".mjs":      "javascript",
	".ts":       "typescript",
	".tsx":      "typescript",
	".css":      "css",
	".scss":     "scss",
	".html":     "html",
	".htm":      "html",
	".json":     "json",
	".md":       "markdown",
	".markdown": "markdown",
	".go":       "go",
	".py":       "python",
	".rs":       "rust",
	".java":     "java",
	".rb":       "ruby",
	".sh":       "shell",
	".yaml":     "yaml",
	".yml":      "yaml",
	".toml":     "toml",
	".sql":      "sql",
	".svg":      "svg",
	".txt":      "text",
}

var languagesByName = map[string]string{
	"Dockerfile": "dockerfile",
	"Makefile":   "makefile",
	".gitignore": "text",
	"LICENSE":    "text",
}

// LanguageForName maps a file name to a display language tag ("" when unknown).
func LanguageForName(name string) string {
	if l, ok := languagesByName[name]; ok {
		return l
	}
	return languagesByExt[strings.ToLower(filepath.Ext(name))]
}
