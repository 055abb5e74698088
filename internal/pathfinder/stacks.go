package pathfinder

import (
	"strings"

	"github.com/jacoelho/xsdpath/internal/model"
)

// EventKind classifies a logged document event.
type EventKind int

const (
	// EventStart is an element open.
	EventStart EventKind = iota
	// EventContent is character data attributed to the open element.
	EventContent
	// EventEnd is an element close.
	EventEnd
)

// String returns the kind name used in event renderings.
func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventContent:
		return "content"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// traversedEvent is one entry of the append-only event log. The log is never
// truncated; backtracking re-interprets it against a different branch.
type traversedEvent struct {
	Name model.QName
	Kind EventKind
}

func renderEvents(events []traversedEvent) string {
	if len(events) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, ev := range events {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(ev.Name.String())
		b.WriteByte(':')
		b.WriteString(ev.Kind.String())
	}
	b.WriteByte(']')
	return b.String()
}

// nameStack tracks open element names.
type nameStack []model.QName

func (s nameStack) empty() bool { return len(s) == 0 }

func (s nameStack) top() model.QName {
	return s[len(s)-1]
}

func (s *nameStack) push(name model.QName) {
	*s = append(*s, name)
}

func (s *nameStack) pop() model.QName {
	old := *s
	name := old[len(old)-1]
	*s = old[:len(old)-1]
	return name
}

func (s nameStack) clone() nameStack {
	if len(s) == 0 {
		return nil
	}
	out := make(nameStack, len(s))
	copy(out, s)
	return out
}
