package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rogersnm/smoothies/internal/markdown"
	"github.com/rogersnm/smoothies/internal/model"
)

// ErrUnchanged is returned by EditCard when the file was saved as-is.
var ErrUnchanged = errors.New("recipe card unchanged")

func editorCmd() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	if e := os.Getenv("VISUAL"); e != "" {
		return e
	}
	return "vi"
}

// Open runs the user's editor on path. EDITOR may carry arguments
// (e.g. "code --wait").
func Open(path string) error {
	editor := editorCmd()
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q: %w", editor, err)
	}
	return nil
}

// EditCard writes s as a recipe card to a temp file, opens it in the
// editor and parses the saved result.
func EditCard(s model.Smoothie) (markdown.Card, error) {
	data, err := markdown.MarshalCard(s)
	if err != nil {
		return markdown.Card{}, err
	}

	dir, err := os.MkdirTemp("", "smoothies-edit-")
	if err != nil {
		return markdown.Card{}, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, s.ID+".md")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return markdown.Card{}, fmt.Errorf("writing recipe card: %w", err)
	}
	if err := Open(path); err != nil {
		return markdown.Card{}, err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return markdown.Card{}, fmt.Errorf("reading recipe card: %w", err)
	}
	if bytes.Equal(edited, data) {
		return markdown.Card{}, ErrUnchanged
	}
	return markdown.ParseCard(bytes.NewReader(edited))
}
