package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/intervista/pkg/domain"
)

// View prints session changes to a terminal. It only redraws what a diff
// reports, so a stream of snapshots reads like a conversation.
type View struct {
	out     io.Writer
	render  func(string) (string, error)
	profile termenv.Profile
	last    *domain.Session
}

// NewView creates a view writing to out. A nil render prints markdown as is.
func NewView(out io.Writer, render func(string) (string, error)) *View {
	if render == nil {
		render = PlainRenderer
	}
	return &View{out: out, render: render, profile: termenv.ColorProfile()}
}

// WithProfile forces a colour profile (termenv.Ascii disables colours).
func (v *View) WithProfile(p termenv.Profile) *View {
	v.profile = p
	return v
}

// Show prints what changed since the previously shown snapshot.
func (v *View) Show(s domain.Session) {
	prev := v.last
	diff := domain.Diff(prev, &s)
	snap := s
	v.last = &snap
	if diff == nil {
		return
	}

	if diff.JobRoleTitle != nil && *diff.JobRoleTitle != "" {
		v.line(v.styled("Role: "+*diff.JobRoleTitle, "#a78bfa").Bold())
	}
	if diff.Status != nil && (prev != nil || *diff.Status != domain.StatusIdle) {
		v.status(*diff.Status)
	}
	if diff.CurrentQuestion != nil && *diff.CurrentQuestion != "" {
		v.markdown("### Question\n\n" + *diff.CurrentQuestion)
	}
	if diff.Feedback != nil && *diff.Feedback != "" {
		v.markdown("### Feedback\n\n" + *diff.Feedback)
	}
	if diff.LastError != nil && *diff.LastError != "" {
		v.line(v.styled("! "+*diff.LastError, "#fb7185"))
	}
}

// Hint prints the commands currently available.
func (v *View) Hint(enabled map[string]bool, order []string) {
	var parts []string
	for _, name := range order {
		if enabled[name] {
			parts = append(parts, "/"+name)
		}
	}
	if len(parts) == 0 {
		return
	}
	v.line(termenv.String("commands: " + strings.Join(parts, " ")).Faint())
}

func (v *View) status(st domain.Status) {
	switch st {
	case domain.StatusGeneratingQuestion:
		v.line(v.styled("… generating question", "#818cf8").Italic())
	case domain.StatusEvaluating:
		v.line(v.styled("… evaluating answer", "#818cf8").Italic())
	case domain.StatusIdle:
		v.line(termenv.String("Session reset.").Faint())
	}
}

func (v *View) markdown(md string) {
	out, err := v.render(md)
	if err != nil {
		out = md
	}
	fmt.Fprintln(v.out, strings.TrimRight(out, "\n"))
}

func (v *View) styled(s, color string) termenv.Style {
	return termenv.String(s).Foreground(v.profile.Color(color))
}

func (v *View) line(s fmt.Stringer) {
	fmt.Fprintln(v.out, s.String())
}
