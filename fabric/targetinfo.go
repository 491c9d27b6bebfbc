package fabric

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const targetInfoVersion = "mxl1"
const targetInfoFieldCount = 8

// TargetInfo is everything an Initiator needs to reach and address a
// Target: which provider to dial, where, and which remote region and
// flow it names, generalizing the source's opaque fabrics target-info
// buffer into named fields plus a stable text encoding.
type TargetInfo struct {
	Provider ProviderKind
	Node     string
	Service  string
	Base     uint64
	Length   uint64
	RKey     uint64
	FlowID   uuid.UUID
}

// TargetInfoToString renders info as "mxl1;<provider>;<node>;<service>;
// <base hex>;<len hex>;<rkey hex>;<uuid>" — self-delimiting and safe to
// copy/paste, mirroring the original's char-buffer-based ToString
// without pulling in a structured-text codec for a flat tuple.
func TargetInfoToString(info TargetInfo) string {
	return strings.Join([]string{
		targetInfoVersion,
		ProviderToString(info.Provider),
		info.Node,
		info.Service,
		strconv.FormatUint(info.Base, 16),
		strconv.FormatUint(info.Length, 16),
		strconv.FormatUint(info.RKey, 16),
		info.FlowID.String(),
	}, ";")
}

// TargetInfoFromString parses the format ToString produces.
func TargetInfoFromString(s string) (TargetInfo, error) {
	parts := strings.Split(s, ";")
	if len(parts) != targetInfoFieldCount || parts[0] != targetInfoVersion {
		return TargetInfo{}, fmt.Errorf("%w: %q", ErrInvalidTargetInfo, s)
	}

	provider, err := ProviderFromString(parts[1])
	if err != nil {
		return TargetInfo{}, fmt.Errorf("%w: provider: %v", ErrInvalidTargetInfo, err)
	}
	base, err := strconv.ParseUint(parts[4], 16, 64)
	if err != nil {
		return TargetInfo{}, fmt.Errorf("%w: base: %v", ErrInvalidTargetInfo, err)
	}
	length, err := strconv.ParseUint(parts[5], 16, 64)
	if err != nil {
		return TargetInfo{}, fmt.Errorf("%w: length: %v", ErrInvalidTargetInfo, err)
	}
	rkey, err := strconv.ParseUint(parts[6], 16, 64)
	if err != nil {
		return TargetInfo{}, fmt.Errorf("%w: rkey: %v", ErrInvalidTargetInfo, err)
	}
	flowID, err := uuid.Parse(parts[7])
	if err != nil {
		return TargetInfo{}, fmt.Errorf("%w: flow id: %v", ErrInvalidTargetInfo, err)
	}

	return TargetInfo{
		Provider: provider,
		Node:     parts[2],
		Service:  parts[3],
		Base:     base,
		Length:   length,
		RKey:     rkey,
		FlowID:   flowID,
	}, nil
}
