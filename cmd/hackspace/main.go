package main

import (
	"os"
	"strings"

	"hackspace/internal/cli"
)

// looksLikePath reports whether a positional token names a tree node rather than a subcommand.
func looksLikePath(s string) bool {
	s = strings.TrimSpace(s)
	return strings.Contains(s, "/") || strings.Contains(s, ".")
}

func rewriteDirectClickArgs(argv []string) []string {
	// Convenience: `hackspace src/App.jsx` works like `hackspace click src/App.jsx`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
	// Persistent flags may come first (`hackspace --root . src/App.jsx`), so we look for the
	// first positional token rather than argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--root":      true,
		"--seed":      true,
		"--format":    true,
		"--log-level": true,
		"--config":    true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insertClick := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "click")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Everything after -- is positional, so the subcommand goes in front of it.
			if i+1 < len(argv) && looksLikePath(argv[i+1]) {
				return insertClick(i)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if looksLikePath(a) {
			return insertClick(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectClickArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
