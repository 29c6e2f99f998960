package metadata

import (
	"strings"
)

// Invocation is a fully specified tool command. Stdin lines are fed to the
// process one per line and are never word-split.
type Invocation struct {
	Program string
	Args    []string
	Stdin   []string
}

// StdinText returns the stdin payload, newline terminated
func (inv Invocation) StdinText() string {
	if len(inv.Stdin) == 0 {
		return ""
	}
	return strings.Join(inv.Stdin, "\n") + "\n"
}

// Render returns a shell rendering of the invocation that can be pasted into
// a POSIX shell. Stdin is rendered as a quoted heredoc so every line is taken
// literally.
func (inv Invocation) Render() string {
	var b strings.Builder

	b.WriteString(shellQuote(inv.Program))
	for _, arg := range inv.Args {
		b.WriteByte(' ')
		b.WriteString(shellQuote(arg))
	}

	if len(inv.Stdin) == 0 {
		return b.String()
	}

	delim := heredocDelimiter(inv.Stdin)
	b.WriteString(" <<'")
	b.WriteString(delim)
	b.WriteString("'\n")
	for _, line := range inv.Stdin {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(delim)

	return b.String()
}

// heredocDelimiter picks a terminator that does not collide with any line
func heredocDelimiter(lines []string) string {
	delim := "EOF"
	for {
		collision := false
		for _, line := range lines {
			if line == delim {
				collision = true
				break
			}
		}
		if !collision {
			return delim
		}
		delim += "_"
	}
}

// shellQuote quotes s for a POSIX shell when it contains anything beyond a
// conservative set of safe characters
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}

	safe := true
	for _, r := range s {
		if !isShellSafe(r) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_./:,+=@%", r)
}
