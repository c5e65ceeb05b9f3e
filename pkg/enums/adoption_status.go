package enums

import "fmt"

// AdoptionStatus reflects a pet's availability. Adoptado is derived from the
// application workflow, never set directly by the owning shelter.
type AdoptionStatus string

const (
	AdoptionDisponible AdoptionStatus = "Disponible"
	AdoptionPendiente  AdoptionStatus = "Pendiente"
	AdoptionAdoptado   AdoptionStatus = "Adoptado"
)

var validAdoptionStatuses = []AdoptionStatus{
	AdoptionDisponible,
	AdoptionPendiente,
	AdoptionAdoptado,
}

// String implements fmt.Stringer.
func (s AdoptionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AdoptionStatus.
func (s AdoptionStatus) IsValid() bool {
	for _, candidate := range validAdoptionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAdoptionStatus converts raw input into an AdoptionStatus.
func ParseAdoptionStatus(value string) (AdoptionStatus, error) {
	for _, candidate := range validAdoptionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adoption status %q", value)
}
