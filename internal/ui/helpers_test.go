package ui

import (
	"reflect"
	"testing"
	"time"

	"github.com/protokoll-app/protokoll/internal/discovery"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{"", nil},
		{"one\n", []string{"one"}},
		{"one\ntwo", []string{"one", "two"}},
		{"one\ntwo\n", []string{"one", "two"}},
		{"\n\n", []string{"", ""}},
	}
	for _, tt := range tests {
		got := splitLines(tt.content)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitLines(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestTruncateLine(t *testing.T) {
	tests := []struct {
		line  string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is t…"},
		{"x", 0, ""},
		{"xy", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncateLine(tt.line, tt.width); got != tt.want {
			t.Errorf("truncateLine(%q, %d) = %q, want %q", tt.line, tt.width, got, tt.want)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want severity
	}{
		{"2024-01-01 ERROR failed to connect", sevError},
		{"FATAL: out of memory", sevError},
		{"level=warn msg=slow", sevWarn},
		{"INFO server started", sevInfo},
		{"DEBUG cache hit", sevDebug},
		{"trace id=abc", sevDebug},
		{"just a plain line", sevNone},
	}
	for _, tt := range tests {
		if got := classifyLine(tt.line); got != tt.want {
			t.Errorf("classifyLine(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestFilterFiles(t *testing.T) {
	now := time.Now()
	entries := []discovery.FileEntry{
		{Name: "app.log", Path: "/a/app.log", ModTime: now},
		{Name: "server.log", Path: "/a/server.log", ModTime: now},
		{Name: "access.txt", Path: "/a/access.txt", ModTime: now},
	}

	got := filterFiles(entries, "srv")
	if len(got) != 1 || got[0].Name != "server.log" {
		t.Fatalf("filterFiles(srv) = %v, want [server.log]", got)
	}

	got = filterFiles(entries, "log")
	if len(got) != 2 {
		t.Fatalf("filterFiles(log) returned %d entries, want 2", len(got))
	}

	if got := filterFiles(entries, "zzz"); len(got) != 0 {
		t.Fatalf("filterFiles(zzz) = %v, want empty", got)
	}
}

func TestThemeCycleCoversAllThemes(t *testing.T) {
	seen := map[string]bool{}
	theme := themeByName("")
	for range themes {
		seen[theme.Name] = true
		theme = nextTheme(theme.Name)
	}
	if len(seen) != len(themes) {
		t.Fatalf("cycled through %d themes, want %d", len(seen), len(themes))
	}
}

func TestThemeByName_UnknownFallsBack(t *testing.T) {
	theme := themeByName("no-such-theme")
	if theme.Name == "" {
		t.Fatal("fallback theme has empty name")
	}
}
