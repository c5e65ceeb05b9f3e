package enums

import "fmt"

// ApprovalStatus is the shelter-only moderation sub-state gating login.
type ApprovalStatus string

const (
	ApprovalPendiente ApprovalStatus = "Pendiente"
	ApprovalAprobado  ApprovalStatus = "Aprobado"
	ApprovalRechazado ApprovalStatus = "Rechazado"
)

var validApprovalStatuses = []ApprovalStatus{
	ApprovalPendiente,
	ApprovalAprobado,
	ApprovalRechazado,
}

// String implements fmt.Stringer.
func (s ApprovalStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ApprovalStatus.
func (s ApprovalStatus) IsValid() bool {
	for _, candidate := range validApprovalStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseApprovalStatus converts raw input into an ApprovalStatus.
func ParseApprovalStatus(value string) (ApprovalStatus, error) {
	for _, candidate := range validApprovalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid approval status %q", value)
}
