package domain

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/moleksy/mxl/flow"
	"github.com/moleksy/mxl/shmseg"
	"github.com/moleksy/mxl/timing"
)

// GC performs one sweep for abandoned flow directories and removes them.
// A flow is abandoned when its access file's mtime is older than grace
// AND its header's LastWriteTime is equally stale, meaning no reader has
// touched it and no writer has committed recently.
//
// The source's garbage collector is a stub with no policy; this is the
// policy decision this implementation makes instead (see DESIGN.md).
// GC is never started automatically — callers that want periodic
// sweeping run it on their own timer.
func (m *Manager) GC(ctx context.Context, grace time.Duration) ([]uuid.UUID, error) {
	ids, err := m.List()
	if err != nil {
		return nil, err
	}

	nowNs := timing.Now()
	var removed []uuid.UUID
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return removed, ctx.Err()
		default:
		}

		if m.isAbandoned(id, nowNs, grace) {
			if m.Delete(id) {
				removed = append(removed, id)
			}
		}
	}
	return removed, nil
}

func (m *Manager) isAbandoned(id uuid.UUID, nowNs uint64, grace time.Duration) bool {
	path := m.flowPath(id)

	accessInfo, err := os.Stat(filepath.Join(path, accessFileName))
	if err != nil {
		// No access marker at all: treat conservatively as not abandoned
		// rather than guessing; a flow mid-creation would never reach
		// this path since it's published atomically, but a corrupted
		// directory should not be silently reaped.
		return false
	}
	if time.Since(accessInfo.ModTime()) < grace {
		return false
	}

	headerSeg, err := shmseg.Open(filepath.Join(path, dataFileName), shmseg.OpenReadOnly, int(flow.HeaderSize), int(flow.HeaderSize))
	if err != nil {
		return false
	}
	defer headerSeg.Close()
	header := (*flow.Header)(headerSeg.Header())

	lastWrite := header.LastWriteTime()
	if lastWrite > nowNs {
		return false
	}
	return time.Duration(nowNs-lastWrite) >= grace
}
