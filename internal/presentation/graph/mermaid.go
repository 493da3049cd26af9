package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/intervista/pkg/domain"
	"github.com/aretw0/intervista/pkg/practice"
)

// Overlay highlights the live session on the diagram.
type Overlay struct {
	Visited []domain.Status
	Current domain.Status
}

// GenerateMermaid produces a Mermaid flowchart of the practice transitions.
// Shapes are semantic:
//   - idle: ((Circle))
//   - busy statuses: [[Subroutine]]
//   - error: {{Hexagon}}
//   - ready statuses: [Rectangle]
//
// Reset and role selection edges are folded into one dotted edge per status.
func GenerateMermaid(transitions []practice.Transition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[domain.Status]bool)
	declare := func(st domain.Status) {
		if declared[st] {
			return
		}
		declared[st] = true
		opener, closer := "[", "]"
		switch {
		case st == domain.StatusIdle:
			opener, closer = "((", "))"
		case st.Busy():
			opener, closer = "[[", "]]"
		case st == domain.StatusError:
			opener, closer = "{{", "}}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID(st), opener, st, closer))
	}

	resets := make(map[domain.Status]bool)
	for _, t := range transitions {
		declare(t.From)
		declare(t.To)

		if t.Event == domain.EventReset || t.Event == domain.EventRoleSelected {
			if t.From != t.To && !resets[t.From] {
				resets[t.From] = true
				sb.WriteString(fmt.Sprintf("    %s -. reset .-> %s\n", safeID(t.From), safeID(t.To)))
			}
			continue
		}

		label := string(t.Event)
		if t.Guard != "" {
			label += " [" + t.Guard + "]"
		}
		label = strings.ReplaceAll(label, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeID(t.From), label, safeID(t.To)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.Status]bool)
		for _, st := range overlay.Visited {
			if st == "" || seen[st] || st == overlay.Current {
				continue
			}
			seen[st] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID(st)))
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", safeID(overlay.Current)))
		}
	}

	return sb.String()
}

func safeID(st domain.Status) string {
	s := strings.ReplaceAll(string(st), "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}
