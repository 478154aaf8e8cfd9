package models

// CompletionOverlay layers client-local action-item completion on top of
// immutable decoded Recordings. The overlay is keyed by the generated item
// identity and merged at render time; the decoded values are never touched.
//
// It is owned by the UI goroutine and is not safe for concurrent use.
type CompletionOverlay struct {
	completed map[string]bool
}

func NewCompletionOverlay() *CompletionOverlay {
	return &CompletionOverlay{completed: make(map[string]bool)}
}

// Toggle flips the completion override for the given item identity and
// returns the new effective value given the item's wire value.
func (o *CompletionOverlay) Toggle(item ActionItem) bool {
	cur, ok := o.completed[item.ID]
	if !ok {
		cur = item.IsCompleted
	}
	o.completed[item.ID] = !cur
	return !cur
}

// IsCompleted returns the effective completion state for the item.
func (o *CompletionOverlay) IsCompleted(item ActionItem) bool {
	if v, ok := o.completed[item.ID]; ok {
		return v
	}
	return item.IsCompleted
}

// Apply returns a copy of items with the overlay merged in. The input slice
// and its elements are left unchanged.
func (o *CompletionOverlay) Apply(items []ActionItem) []ActionItem {
	out := make([]ActionItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].IsCompleted = o.IsCompleted(items[i])
	}
	return out
}

// Reset drops all overrides, e.g. when a newer snapshot replaces the
// recording and item identities are regenerated.
func (o *CompletionOverlay) Reset() {
	o.completed = make(map[string]bool)
}
