package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/germanamz/cryptocontent/pkg/content"
	"github.com/germanamz/cryptocontent/pkg/modeladapter/usage"
	"github.com/germanamz/cryptocontent/pkg/prompts"
	"github.com/mattn/go-runewidth"
)

const markdownWidth = 100

// renderResult formats a content result for the terminal.
func renderResult(res content.Result, markdown bool) string {
	var sb strings.Builder

	status := okStyle.Render(string(res.Status))
	if !res.Implemented() {
		status = warnStyle.Render(string(res.Status))
	}
	fmt.Fprintf(&sb, "%s %s %s\n", kindStyle.Render(string(res.Kind)), status, dimStyle.Render(res.ID.String()))

	if !res.Implemented() {
		sb.WriteString(textBlock.Render(res.Message))
		sb.WriteString("\n")
		return sb.String()
	}

	switch {
	case len(res.Tweets) > 0:
		for _, t := range res.Tweets {
			count := dimStyle.Render(fmt.Sprintf("(%d chars)", t.Characters))
			if t.OverLimit {
				count = errorStyle.Render(fmt.Sprintf("(%d chars, over %d)", t.Characters, content.MaxTweetLength))
			}
			fmt.Fprintf(&sb, "%s %s %s\n", tweetIndexStyle.Render(fmt.Sprintf("[%d]", t.Index)), t.Text, count)
		}
	case markdown:
		sb.WriteString(renderMarkdown(res.Text, markdownWidth))
		sb.WriteString("\n")
	default:
		sb.WriteString(textBlock.Render(res.Text))
		sb.WriteString("\n")
	}

	meta := []string{
		fmt.Sprintf("%d chars", res.Metadata.Characters),
		fmt.Sprintf("~%d tokens", res.Metadata.EstimatedTokens),
	}
	if res.Metadata.Model != "" {
		meta = append(meta, res.Metadata.Model)
	}
	sb.WriteString(dimStyle.Render(strings.Join(meta, " · ")))
	sb.WriteString("\n")

	for _, w := range res.Metadata.Warnings {
		sb.WriteString(warnStyle.Render("! " + w))
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderMarkdown renders text for the terminal. It falls back to the raw text
// when the renderer cannot be built.
func renderMarkdown(text string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}

	return strings.TrimRight(out, "\n")
}

// renderTemplateLine prints a template name, its placeholders and a preview of
// its first line truncated to width columns.
func renderTemplateLine(t prompts.Template, width int) string {
	first := strings.TrimSpace(t.Body)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}

	vars := "{" + strings.Join(t.Placeholders(), "} {") + "}"
	if len(t.Placeholders()) == 0 {
		vars = "-"
	}

	return fmt.Sprintf("%s %s\n  %s\n",
		nameStyle.Render(t.Name),
		dimStyle.Render(vars),
		runewidth.Truncate(first, width, "…"),
	)
}

func formatUsage(u usage.TokenCount) string {
	s := fmt.Sprintf("tokens: prompt %d, completion %d", u.PromptTokens, u.CompletionTokens)
	if u.Estimated {
		s += " (estimated)"
	}
	return s
}
