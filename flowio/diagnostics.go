package flowio

import (
	"fmt"

	"github.com/moleksy/mxl/flow"
)

// ReaderDiagnostic reports whether a reader appears stalled against a
// discrete flow's writer, generalizing the teacher's dueling-buffers
// check from a bidirectional ring pair to a single writer/many-readers
// grain ring.
type ReaderDiagnostic struct {
	Stalled       bool
	SyncCounter   uint64
	GrainCount    uint64
	RequestedIdx  uint64
	WindowFloor   uint64
	LastWriteTime uint64
	Detail        string
}

// DiagnoseStalledReader reports whether requestedIndex lies outside the
// flow's current retention window, and if so, how far behind the reader
// has fallen. It never blocks and never mutates the flow.
func DiagnoseStalledReader(data *flow.DiscreteFlowData, requestedIndex uint64) ReaderDiagnostic {
	header := data.Info()
	syncCounter := header.SyncCounter()
	grainCount := header.GrainCount()

	var floor uint64
	if syncCounter > 0 {
		head := syncCounter - 1
		if head+1 > grainCount {
			floor = head + 1 - grainCount
		}
	}

	stalled := syncCounter > 0 && requestedIndex < floor
	var detail string
	if stalled {
		behind := floor - requestedIndex
		detail = fmt.Sprintf(
			"READER STALLED: requested grain %d but the flow's retention window now starts at %d "+
				"(%d grains behind, ring capacity %d). The writer has overwritten this slot.",
			requestedIndex, floor, behind, grainCount)
	} else {
		detail = fmt.Sprintf(
			"Flow state: syncCounter=%d grainCount=%d windowFloor=%d requestedIndex=%d lastWriteTime=%d",
			syncCounter, grainCount, floor, requestedIndex, header.LastWriteTime())
	}

	return ReaderDiagnostic{
		Stalled:       stalled,
		SyncCounter:   syncCounter,
		GrainCount:    grainCount,
		RequestedIdx:  requestedIndex,
		WindowFloor:   floor,
		LastWriteTime: header.LastWriteTime(),
		Detail:        detail,
	}
}
