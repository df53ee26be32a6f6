// Package formatter renders posts, reactions and comments for the terminal.
package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hindiconfession/cli/pkg/locale"
	"github.com/hindiconfession/cli/pkg/model"
	"github.com/hindiconfession/cli/pkg/output"
)

var (
	Bold    = color.New(color.Bold)
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Warning = color.New(color.FgYellow)
	Faint   = color.New(color.Faint)
)

const previewRunes = 180

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	output.PrintSuccess(format, args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	output.PrintError(format, args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	output.PrintInfo(format, args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	output.PrintWarning(format, args...)
}

// PostOptions controls how much of a post is shown.
type PostOptions struct {
	Full        bool
	RevealAdult bool
	Now         time.Time
}

// Post writes one post card.
func Post(w io.Writer, p model.Post, lang locale.Language, opts PostOptions) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	Bold.Fprint(w, p.Title)
	if p.IsNsfw() {
		Warning.Fprintf(w, " [%s]", p.NsfwLevel)
	}
	fmt.Fprintln(w)

	meta := []string{p.Author.DisplayName, RelativeTime(p.CreatedAt, now)}
	if p.Community != nil && p.Community.Name != "" {
		meta = append(meta, "in "+p.Community.Name)
	}
	if p.Mood != "" {
		meta = append(meta, "feeling "+p.Mood)
	}
	Faint.Fprintln(w, strings.Join(meta, " · "))

	switch {
	case p.IsNsfw() && !opts.RevealAdult:
		Faint.Fprintln(w, "(hidden: adult content, verify your age to view)")
	case opts.Full:
		fmt.Fprintln(w, p.Content)
	default:
		fmt.Fprintln(w, Truncate(p.Content, previewRunes))
	}

	if len(p.Tags) > 0 {
		tags := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			tags = append(tags, "#"+t.Slug)
		}
		Info.Fprintln(w, strings.Join(tags, " "))
	}
	if opts.Full && len(p.Images) > 0 {
		for _, img := range p.Images {
			Faint.Fprintln(w, "  🖼 "+img)
		}
	}

	Reactions(w, p.Reactions, p.UserReaction, lang)
	Faint.Fprintf(w, "💬 %d  👁 %d  id:%s\n", p.CommentCount, p.ViewCount, p.ID)
	if p.Expired(now) {
		Warning.Fprintln(w, "This post has expired")
	}
}

// Reactions writes the reaction bar and, when there are enough reactions,
// the normality hint.
func Reactions(w io.Writer, counts model.ReactionCounts, selected string, lang locale.Language) {
	parts := make([]string, 0, len(locale.ReactionTypes))
	for _, t := range locale.ReactionTypes {
		part := fmt.Sprintf("%s %d", locale.ReactionEmoji[t], counts.Get(t))
		if t == selected {
			part = "[" + part + "]"
		}
		parts = append(parts, part)
	}
	fmt.Fprint(w, strings.Join(parts, "  "))

	if hint := locale.NormalityHint(counts.Map()); hint != locale.HintNone {
		Faint.Fprintf(w, "   %s", locale.HintLabel(lang, hint))
	}
	fmt.Fprintln(w)
}

// ReactionLegend lists the reaction names accepted by the react command.
func ReactionLegend(w io.Writer, lang locale.Language) {
	for _, t := range locale.ReactionTypes {
		fmt.Fprintf(w, "  %s %-10s %s\n", locale.ReactionEmoji[t], t, locale.ReactionLabel(lang, t))
	}
}

// Comments writes a comment thread. Replies are indented under their parent.
func Comments(w io.Writer, comments []model.Comment, now time.Time) {
	for _, c := range comments {
		comment(w, c, "", now)
	}
}

func comment(w io.Writer, c model.Comment, indent string, now time.Time) {
	Bold.Fprint(w, indent+c.Author.DisplayName)
	Faint.Fprintf(w, " · %s\n", RelativeTime(c.CreatedAt, now))
	if c.IsDeleted {
		Faint.Fprintln(w, indent+"[deleted]")
	} else {
		for _, line := range strings.Split(c.Content, "\n") {
			fmt.Fprintln(w, indent+line)
		}
	}
	for _, r := range c.Replies {
		comment(w, r, indent+"  ", now)
	}
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

// RelativeTime renders t relative to now.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2 Jan 2006")
	}
}
