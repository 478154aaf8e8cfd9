package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItems(t *testing.T) []ActionItem {
	t.Helper()
	r, err := DecodeRecording([]byte(`{
		"id":"r","title":"t","date":"2025-01-02T03:04:05Z","duration":1,
		"type":"meeting","status":"completed",
		"actionItems":[
			{"task":"a","assignee":"You","priority":"high","timestamp":"00:01","context":"c"},
			{"task":"b","assignee":"Bob","priority":"low","timestamp":"00:02","context":"c","isCompleted":true}
		]}`))
	require.NoError(t, err)
	return r.ActionItems
}

func TestOverlay_DefaultsToWireValue(t *testing.T) {
	items := newItems(t)
	o := NewCompletionOverlay()

	assert.False(t, o.IsCompleted(items[0]))
	assert.True(t, o.IsCompleted(items[1]))
}

func TestOverlay_ToggleAndApplyLeaveDecodedValueUntouched(t *testing.T) {
	items := newItems(t)
	o := NewCompletionOverlay()

	assert.True(t, o.Toggle(items[0]))
	assert.False(t, o.Toggle(items[1]))

	merged := o.Apply(items)
	assert.True(t, merged[0].IsCompleted)
	assert.False(t, merged[1].IsCompleted)

	// decoded values stay immutable
	assert.False(t, items[0].IsCompleted)
	assert.True(t, items[1].IsCompleted)
}

func TestOverlay_Reset(t *testing.T) {
	items := newItems(t)
	o := NewCompletionOverlay()
	o.Toggle(items[0])

	o.Reset()
	assert.False(t, o.IsCompleted(items[0]))
}
