package docstate

import (
	"github.com/dmitrymomot/docstate/pkg/document"
	"github.com/dmitrymomot/docstate/pkg/statemachine"
)

// changeRecorder makes every executed transition visible to the
// document's change queries, even when the value did not move.
type changeRecorder struct {
	mode DirtyTracking
}

func (r changeRecorder) RecordIfChanged(obj statemachine.Object, attribute string, old, new any) {
	doc, ok := obj.(*document.Document)
	if !ok {
		return
	}
	if r.mode == DirtyNative {
		doc.WillChange(attribute)
		return
	}
	if old != new && doc.ValueChanged(attribute) {
		return
	}
	doc.ForceChange(attribute, old, new)
}
