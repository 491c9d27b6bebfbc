package fabric

import "strings"

// ProviderKind enumerates the transports a Target/Initiator can select,
// generalizing the source's mxlFabricsProvider enum.
type ProviderKind uint8

const (
	ProviderAuto ProviderKind = iota
	ProviderTCP
	ProviderVerbs
	ProviderEFA
)

// ProviderToString serializes kind to its canonical lowercase name.
func ProviderToString(kind ProviderKind) string {
	switch kind {
	case ProviderAuto:
		return "auto"
	case ProviderTCP:
		return "tcp"
	case ProviderVerbs:
		return "verbs"
	case ProviderEFA:
		return "efa"
	default:
		return "auto"
	}
}

// ProviderFromString parses a provider name case-insensitively.
func ProviderFromString(s string) (ProviderKind, error) {
	switch strings.ToLower(s) {
	case "auto":
		return ProviderAuto, nil
	case "tcp":
		return ProviderTCP, nil
	case "verbs":
		return ProviderVerbs, nil
	case "efa":
		return ProviderEFA, nil
	default:
		return ProviderAuto, ErrUnknownProvider
	}
}

// newProvider constructs the Provider implementation for kind. AUTO
// always resolves to TCP: it's the only provider whose BindEndpoint can
// actually succeed in this module, so it is trivially "the first
// provider whose capabilities are satisfied."
func newProvider(kind ProviderKind) Provider {
	switch kind {
	case ProviderTCP, ProviderAuto:
		return newTCPProvider()
	case ProviderVerbs:
		return newStubProvider("verbs")
	case ProviderEFA:
		return newStubProvider("efa")
	default:
		return newTCPProvider()
	}
}
