package enums

import "fmt"

// ApplicationStatus is the four-valued adoption request workflow state.
// Pendiente is the initial state; none of the values is hard-terminal.
type ApplicationStatus string

const (
	ApplicationPendiente  ApplicationStatus = "Pendiente"
	ApplicationContactado ApplicationStatus = "Contactado"
	ApplicationAprobada   ApplicationStatus = "Aprobada"
	ApplicationRechazada  ApplicationStatus = "Rechazada"
)

var validApplicationStatuses = []ApplicationStatus{
	ApplicationPendiente,
	ApplicationContactado,
	ApplicationAprobada,
	ApplicationRechazada,
}

// String implements fmt.Stringer.
func (s ApplicationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ApplicationStatus.
func (s ApplicationStatus) IsValid() bool {
	for _, candidate := range validApplicationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseApplicationStatus converts raw input into an ApplicationStatus.
func ParseApplicationStatus(value string) (ApplicationStatus, error) {
	for _, candidate := range validApplicationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid application status %q", value)
}
