package editor

import (
	"os"
	"strings"
	"testing"
)

func TestCmd_UsesEditorAndWritesTemplate(t *testing.T) {
	t.Setenv("EDITOR", "cat")
	e := NewEnvEditor()

	cmd, path, err := e.Cmd("hello", "@alice")
	if err != nil {
		t.Fatalf("cmd failed: %v", err)
	}
	defer os.Remove(path)
	if len(cmd.Args) != 2 || cmd.Args[0] != "cat" || cmd.Args[1] != path {
		t.Fatalf("unexpected args: %#v", cmd.Args)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read temp file failed: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "Replying to @alice") || !strings.HasPrefix(text, "hello") {
		t.Fatalf("unexpected template content: %q", text)
	}
}

func TestCmd_SplitsEditorFlags(t *testing.T) {
	t.Setenv("EDITOR", "code --wait")
	cmd, path, err := NewEnvEditor().Cmd("", "")
	if err != nil {
		t.Fatalf("cmd failed: %v", err)
	}
	defer os.Remove(path)
	if len(cmd.Args) != 3 || cmd.Args[1] != "--wait" || cmd.Args[2] != path {
		t.Fatalf("unexpected args: %#v", cmd.Args)
	}
}

func TestReadContent_StripsFooterAndDeletesFile(t *testing.T) {
	e := NewEnvEditor()
	f, err := os.CreateTemp("", "rentreels-test-*.txt")
	if err != nil {
		t.Fatalf("create temp failed: %v", err)
	}
	path := f.Name()
	_, _ = f.WriteString("\nline1\nline2\n\n" + marker + "\n# Replying to Ravi\n")
	_ = f.Close()

	content, err := e.ReadContent(path)
	if err != nil {
		t.Fatalf("read content failed: %v", err)
	}
	if content != "line1\nline2" {
		t.Fatalf("unexpected content: %q", content)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be deleted")
	}
}

func TestReadContent_OnlyFooterIsEmpty(t *testing.T) {
	f, _ := os.CreateTemp("", "rentreels-test-*.txt")
	_, _ = f.WriteString(template("", "Ravi"))
	_ = f.Close()

	content, err := NewEnvEditor().ReadContent(f.Name())
	if err != nil || content != "" {
		t.Fatalf("expected empty content, got %q err=%v", content, err)
	}
}
