package tree

import (
	"fmt"
	"io"
	"strings"
)

// Dump returns compact representation of t and its descendants:
// "(kind [pos:len] child ...)". Trees without kind are shown as "-".
func Dump(t *Tree) string {
	if t == nil {
		return ""
	}

	b := &strings.Builder{}
	dump(t, b)
	return b.String()
}

func dump(t *Tree, b *strings.Builder) {
	kind := t.Kind()
	if kind == "" {
		kind = "-"
	}
	b.WriteString("(" + kind + " " + t.reference.String())
	for c := t.firstChild; c != nil; c = c.next {
		b.WriteByte(' ')
		dump(c, b)
	}
	b.WriteByte(')')
}

// Fprint writes t and its descendants one per line indented by level.
// Trees without children are followed by their quoted text.
func Fprint(w io.Writer, t *Tree) error {
	var e error
	Walk(t, WalkLtr, func(stat WalkStat) WalkerFlags {
		n := stat.Tree
		kind := n.Kind()
		if kind == "" {
			kind = "-"
		}

		line := strings.Repeat("  ", stat.Level) + kind + " " + n.reference.String()
		if n.zIndex != 0 && n.zIndex != MinZIndex {
			line += fmt.Sprintf(" z=%d", n.zIndex)
		}
		if n.firstChild == nil {
			line += fmt.Sprintf(" %q", n.Text())
		}
		_, e = fmt.Fprintln(w, line)
		if e != nil {
			return WalkerStop
		}
		return 0
	})
	return e
}
