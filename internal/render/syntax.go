package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// SyntaxMarkdown documents the command language.
const SyntaxMarkdown = "# tlog command syntax\n\n" +
	"| Command | Meaning |\n" +
	"|---|---|\n" +
	"| `S [desc] [#ISSUE] @HH:MM` | start working (on an issue) |\n" +
	"| `A @HH:MM` | away, a pause begins |\n" +
	"| `B @HH:MM` | back, resumes what was running before the pause |\n" +
	"| `O @HH:MM` | out, the day ends |\n" +
	"| `D name expansion` | define an alias; an empty expansion deletes it |\n" +
	"| `R https://host/log?i={#}&s={@sec}&at={@start}` | set the report URL |\n\n" +
	"The time may also be given as `@YYYY-MM-DD HH:MM`.\n\n" +
	"Typing an alias name alone expands it, e.g. `D lunch A @12:00` then `lunch`.\n\n" +
	"In the report URL `{#}` is the issue, `{@sec}` the tracked seconds and " +
	"`{@start}` the start time. Older templates with a bare `#` and `@` still work.\n\n" +
	"## Examples\n\n" +
	"```\nS fixing the build #FOO-1 @9:00\nA @12:00\nB @12:30\nO @17:00\n```\n"

const minWrap = 24

// Syntax renders SyntaxMarkdown for a terminal of the given width. Without
// color the markdown is returned as written.
func Syntax(width int, color bool) (string, error) {
	if !color {
		return SyntaxMarkdown, nil
	}
	if width < minWrap {
		width = minWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(SyntaxMarkdown)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
