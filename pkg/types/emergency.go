package types

import "encoding/json"

// EmergencyKind is a tagged emergency category. The three recognized kinds
// carry type-specific side effects in the engine; any other declared kind is
// carried verbatim with no special handling.
type EmergencyKind struct {
	name string
}

// Recognized emergency kinds.
var (
	EmergencyMedical        = EmergencyKind{"medical"}
	EmergencyEngine         = EmergencyKind{"engine"}
	EmergencyPressurization = EmergencyKind{"pressurization"}
)

// OtherEmergency wraps an unrecognized kind name. Declaring one records the
// name but triggers no side effects.
func OtherEmergency(name string) EmergencyKind {
	return EmergencyKind{name: name}
}

// ParseEmergencyKind maps a wire string onto one of the recognized kinds,
// falling back to OtherEmergency.
func ParseEmergencyKind(s string) EmergencyKind {
	switch s {
	case EmergencyMedical.name:
		return EmergencyMedical
	case EmergencyEngine.name:
		return EmergencyEngine
	case EmergencyPressurization.name:
		return EmergencyPressurization
	default:
		return OtherEmergency(s)
	}
}

// IsZero reports whether the kind is unset.
func (k EmergencyKind) IsZero() bool { return k.name == "" }

func (k EmergencyKind) String() string { return k.name }

// MarshalJSON encodes the kind as its name string.
func (k EmergencyKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.name)
}

// UnmarshalJSON decodes a name string via ParseEmergencyKind.
func (k *EmergencyKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = ParseEmergencyKind(s)
	return nil
}
