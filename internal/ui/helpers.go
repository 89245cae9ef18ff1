package ui

import (
	"strings"
)

// splitLines breaks file content into lines without a trailing empty line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// truncateLine shortens a plain (unstyled) line to width cells.
func truncateLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// severity classifies a log line by the level token it carries.
type severity int

const (
	sevNone severity = iota
	sevDebug
	sevInfo
	sevWarn
	sevError
)

var severityTokens = []struct {
	token string
	sev   severity
}{
	{"fatal", sevError},
	{"panic", sevError},
	{"error", sevError},
	{"err]", sevError},
	{"warn", sevWarn},
	{"info", sevInfo},
	{"debug", sevDebug},
	{"trace", sevDebug},
}

func classifyLine(line string) severity {
	lower := strings.ToLower(line)
	for _, t := range severityTokens {
		if strings.Contains(lower, t.token) {
			return t.sev
		}
	}
	return sevNone
}

// highlightLine styles a log line by severity and marks search hits.
func highlightLine(line, query string, styles Styles) string {
	base := styles.Text
	switch classifyLine(line) {
	case sevError:
		base = styles.Danger
	case sevWarn:
		base = styles.Warning
	case sevInfo:
		base = styles.Info
	case sevDebug:
		base = styles.Faint
	}

	if query == "" {
		return base.Render(line)
	}

	lower := strings.ToLower(line)
	needle := strings.ToLower(query)
	var b strings.Builder
	for {
		i := strings.Index(lower, needle)
		if i < 0 {
			b.WriteString(base.Render(line))
			break
		}
		if i > 0 {
			b.WriteString(base.Render(line[:i]))
		}
		b.WriteString(styles.SearchHit.Render(line[i : i+len(needle)]))
		line = line[i+len(needle):]
		lower = lower[i+len(needle):]
	}
	return b.String()
}
