package selector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"kubezen/internal/navigation"
)

// maxItemWidth bounds the display portion of an item line; longer resource
// names are truncated with an ellipsis so the selector columns stay stable.
const maxItemWidth = 120

// Renderer turns a view's display configuration into an item file on disk
// plus the action string that makes fzf show it.
type Renderer struct {
	itemFile string
}

// NewRenderer creates a renderer writing items to the given file.
func NewRenderer(itemFile string) *Renderer {
	return &Renderer{itemFile: itemFile}
}

// Render writes the item lines and returns the selector actions that load
// them and apply the view's prompt, header and preview.
func (r *Renderer) Render(view navigation.View, items []navigation.Item, opts navigation.Options, initial bool) ([]string, error) {
	var lines strings.Builder
	for _, item := range items {
		lines.WriteString(FormatLine(item, view.SessionID()))
		lines.WriteByte('\n')
	}
	if err := os.MkdirAll(filepath.Dir(r.itemFile), 0o700); err != nil {
		return nil, fmt.Errorf("could not create item directory: %w", err)
	}
	if err := os.WriteFile(r.itemFile, []byte(lines.String()), 0o600); err != nil {
		return nil, fmt.Errorf("could not write item file: %w", err)
	}

	actions := []string{
		fmt.Sprintf("change-prompt(%s)", sanitize(opts.Prompt)),
		fmt.Sprintf("change-header(%s)", sanitize(opts.Header)),
	}
	if opts.Preview != "" {
		actions = append(actions, fmt.Sprintf("change-preview(%s)", sanitize(opts.Preview)))
	} else {
		actions = append(actions, "change-preview()")
	}
	actions = append(actions,
		fmt.Sprintf("reload(cat %s)", r.itemFile),
		"first",
	)
	if !initial {
		actions = append(actions, "clear-query")
	}
	return actions, nil
}

// FormatLine renders one item as the code|session|display line the bridge
// parses back on selection.
func FormatLine(item navigation.Item, sessionID string) string {
	display := item.Text
	if item.Icon != "" {
		display = item.Icon + " " + display
	}
	display = runewidth.Truncate(display, maxItemWidth, "…")
	// The delimiter must survive round-tripping; strip it from display text.
	display = strings.ReplaceAll(display, "|", "/")
	return fmt.Sprintf("%s|%s|%s", item.Code, sessionID, display)
}

// sanitize keeps prompt/header text from terminating an fzf action early.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, ")", "]")
	s = strings.ReplaceAll(s, "(", "[")
	return strings.ReplaceAll(s, "+", " ")
}
