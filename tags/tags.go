package tags

import "github.com/katalvlaran/tatumgo/ids"

// Tags is the per-node container of Tag records. For
// non-Slack tag types, a given (Type, Launch, Capture) key is present at
// most once; Slack tags live in the same container but are written only
// through SetSlack/SetSlackAs, never through InsertOrMerge.
//
// A Tags value is owned exclusively by one node: the level-barrier in
// walker.Parallel establishes happens-before between the writer (previous
// level) and reader (current level), so no internal locking is needed.
type Tags struct {
	entries []Tag
}

// New returns an empty Tags container.
func New() *Tags {
	return &Tags{}
}

// Len reports how many tags are currently stored.
func (t *Tags) Len() int { return len(t.entries) }

// InsertOrMerge inserts tag if no entry exists for its (Type, Launch,
// Capture) key, or merges it into the existing entry per sem: KeepMax
// replaces the incumbent only if tag.Time is strictly greater, KeepMin
// only if strictly less. A tie leaves the incumbent untouched, so the
// origin_node of an unbroken tie is whichever tag arrived first in
// traversal order.
func (t *Tags) InsertOrMerge(tag Tag, sem Semantics) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Type != tag.Type || e.Launch != tag.Launch || e.Capture != tag.Capture {
			continue
		}
		switch sem {
		case KeepMax:
			if tag.Time > e.Time {
				*e = tag
			}
		case KeepMin:
			if tag.Time < e.Time {
				*e = tag
			}
		}
		return
	}
	t.entries = append(t.entries, tag)
}

// Range returns every tag of the given type, in insertion order.
func (t *Tags) Range(typ Type) []Tag {
	var out []Tag
	for _, e := range t.entries {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// Find returns every tag (of any type) keyed by (launch, capture).
func (t *Tags) Find(launch, capture ids.DomainID) []Tag {
	var out []Tag
	for _, e := range t.entries {
		if e.Launch == launch && e.Capture == capture {
			out = append(out, e)
		}
	}
	return out
}

// FindOne returns the single tag of type typ keyed by (launch, capture),
// if present.
func (t *Tags) FindOne(typ Type, launch, capture ids.DomainID) (Tag, bool) {
	for _, e := range t.entries {
		if e.Type == typ && e.Launch == launch && e.Capture == capture {
			return e, true
		}
	}
	return Tag{}, false
}

// All returns every tag currently stored, in insertion order.
func (t *Tags) All() []Tag {
	out := make([]Tag, len(t.entries))
	copy(out, t.entries)
	return out
}

// SetSlack stores (or overwrites) the Slack value for (launch, capture).
// Slack is derived once per traversal from a matching arrival/required
// pair, never merged via max/min, so SetSlack always
// overwrites rather than comparing against any incumbent.
func (t *Tags) SetSlack(launch, capture ids.DomainID, value float64) {
	t.SetSlackAs(Slack, launch, capture, value)
}

// SetSlackAs is SetSlack with an explicit tag Type, for callers
// (SetupHoldOps) that store hold-side slack under HoldSlack so it doesn't
// overwrite the setup-side Slack entry for the same domain pair.
func (t *Tags) SetSlackAs(typ Type, launch, capture ids.DomainID, value float64) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Type == typ && e.Launch == launch && e.Capture == capture {
			e.Time = value
			return
		}
	}
	t.entries = append(t.entries, Tag{Time: value, Launch: launch, Capture: capture, Origin: ids.InvalidNode, Type: typ})
}

// Slack returns the stored Slack value for (launch, capture), if any.
func (t *Tags) Slack(launch, capture ids.DomainID) (float64, bool) {
	return t.SlackAs(Slack, launch, capture)
}

// SlackAs is Slack with an explicit tag Type (see SetSlackAs).
func (t *Tags) SlackAs(typ Type, launch, capture ids.DomainID) (float64, bool) {
	tag, ok := t.FindOne(typ, launch, capture)
	return tag.Time, ok
}

// Clear removes every tag.
func (t *Tags) Clear() {
	t.entries = t.entries[:0]
}

// ClearType removes every tag of the given type only.
func (t *Tags) ClearType(typ Type) {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.Type != typ {
			kept = append(kept, e)
		}
	}
	t.entries = kept
}
