package flow

import "github.com/moleksy/mxl/shmseg"

// FlowData is the common projection every flow shape offers: access to
// its header segment and a validity check. DiscreteFlowData and
// ContinuousFlowData implement it; callers type-switch (or check
// IsDiscreteFormat/IsContinuousFormat on Info().Format()) to reach the
// shape-specific operations.
type FlowData interface {
	Info() *Header
	IsValid() bool
	Close() error
}

func headerFrom(seg *shmseg.Segment) *Header {
	return (*Header)(seg.Header())
}
