package shared

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSanitizeTitle(t *testing.T) {
	tc := []struct {
		name  string
		title string
		want  string
	}{
		{name: "plain title", title: "Song Title", want: "Song Title"},
		{name: "forward slash", title: "AC/DC - Back in Black", want: "AC_DC - Back in Black"},
		{name: "backslash", title: `left\right`, want: "left_right"},
		{name: "surrounding whitespace", title: "  spaced  ", want: "spaced"},
		{name: "empty", title: "", want: "untitled"},
		{name: "dot dot", title: "..", want: "untitled"},
		{name: "decomposed accent", title: "Cafe\u0301", want: "Caf\u00e9"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitle(tt.title); got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestNamingRule(t *testing.T) {
	t.Run("FileName has no separators", func(t *testing.T) {
		rule := NewNamingRule("")
		titles := []string{"a/b/c", `x\y`, "../../etc/passwd", "normal"}
		for _, title := range titles {
			name := rule.FileName(title, "mp3")
			if strings.ContainsAny(name, `/\`) {
				t.Errorf("FileName(%q) = %q contains a path separator", title, name)
			}
		}
	})

	t.Run("FileName is deterministic", func(t *testing.T) {
		rule := NewNamingRule("PLAYX")
		a := rule.FileName("Same / Title", "mp3")
		b := rule.FileName("Same / Title", "mp3")
		if a != b {
			t.Errorf("expected identical names, got %q and %q", a, b)
		}
		if a != "Same _ Title (PLAYX).mp3" {
			t.Errorf("unexpected name %q", a)
		}
	})

	t.Run("extension dot is optional", func(t *testing.T) {
		rule := NewNamingRule("X")
		if got := rule.FileName("t", ".flac"); got != "t (X).flac" {
			t.Errorf("got %q", got)
		}
	})
}

func TestLogging(t *testing.T) {
	t.Run("NewLogger writes to buffer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "key", "value")
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "playx.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Info("written to file")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "written to file") {
			t.Errorf("log file missing entry, got %q", string(data))
		}
	})

	t.Run("NewFileLogger fails on unwritable path", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := NewFileLogger(filepath.Join(blocker, "sub", "playx.log"))
		if !errors.Is(err, ErrIO) {
			t.Errorf("expected ErrIO, got %v", err)
		}
	})

	t.Run("ParseLogLevel", func(t *testing.T) {
		if ParseLogLevel("DEBUG") != log.DebugLevel {
			t.Error("expected debug level")
		}
		if ParseLogLevel("nonsense") != log.InfoLevel {
			t.Error("expected fallback to info level")
		}
	})
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandHome("~/Downloads"); got != filepath.Join(home, "Downloads") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := ExpandHome("~user/x"); got != "~user/x" {
		t.Errorf("named home should be untouched: %q", got)
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string, got %q", a)
	}
}
