package flow

// Format identifies the media shape a flow carries.
type Format uint32

const (
	FormatUnspecified Format = iota
	FormatVideo
	FormatAudio
	FormatData
)

// SanitizeFormat maps any value outside the known set to Unspecified,
// matching sanitizeFlowFormat in the flow manager this package supports:
// unsupported values collapse to a format that is neither discrete nor
// continuous, so creation with it always fails rather than silently
// picking a shape.
func SanitizeFormat(f Format) Format {
	switch f {
	case FormatVideo, FormatAudio, FormatData:
		return f
	default:
		return FormatUnspecified
	}
}

// IsDiscreteFormat reports whether f denotes a grain-indexed flow.
func IsDiscreteFormat(f Format) bool {
	return f == FormatVideo || f == FormatData
}

// IsContinuousFormat reports whether f denotes a sample-indexed flow.
func IsContinuousFormat(f Format) bool {
	return f == FormatAudio
}
