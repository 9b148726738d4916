// Package editor composes comment text in the user's $EDITOR.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvEditor prepares an external editor command using $EDITOR (fallback: "vi").
// It never runs the editor itself; callers hand the returned *exec.Cmd to
// tea.ExecProcess so the terminal is released while it runs.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const marker = "# ---- write your comment above this line ----"

// Cmd writes draft plus a commented header to a temp file and returns the
// editor command for it. replyTo names the comment author being answered and
// may be empty.
func (e *EnvEditor) Cmd(draft, replyTo string) (*exec.Cmd, string, error) {
	editorCmd := strings.TrimSpace(os.Getenv("EDITOR"))
	if editorCmd == "" {
		editorCmd = "vi"
	}

	tmp, err := os.CreateTemp("", "rentreels-comment-*.txt")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	defer tmp.Close()

	if _, err := tmp.WriteString(template(draft, replyTo)); err != nil {
		os.Remove(path)
		return nil, "", fmt.Errorf("writing temp file: %w", err)
	}

	// $EDITOR may carry flags, e.g. "code --wait".
	fields := strings.Fields(editorCmd)
	args := append(fields[1:], path)
	return exec.Command(fields[0], args...), path, nil
}

func template(draft, replyTo string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(draft))
	b.WriteString("\n\n")
	b.WriteString(marker + "\n")
	if replyTo = strings.TrimSpace(replyTo); replyTo != "" {
		fmt.Fprintf(&b, "# Replying to %s\n", replyTo)
	}
	b.WriteString("# Save and quit to post. An empty comment is discarded.\n")
	return b.String()
}

// ReadContent returns the text above the marker and removes the temp file.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}
	content := string(data)
	if idx := strings.Index(content, marker); idx != -1 {
		content = content[:idx]
	}
	return strings.TrimSpace(content), nil
}
