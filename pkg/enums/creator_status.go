package enums

import "fmt"

// CreatorProfileStatus maps to the creator_profile_status enum in Postgres.
// Draft profiles cannot apply to offers.
type CreatorProfileStatus string

const (
	CreatorProfileStatusDraft  CreatorProfileStatus = "draft"
	CreatorProfileStatusActive CreatorProfileStatus = "active"
)

var validCreatorProfileStatuses = []CreatorProfileStatus{
	CreatorProfileStatusDraft,
	CreatorProfileStatusActive,
}

// IsValid reports whether the value matches the canonical enum.
func (s CreatorProfileStatus) IsValid() bool {
	for _, candidate := range validCreatorProfileStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCreatorProfileStatus converts raw input into CreatorProfileStatus.
func ParseCreatorProfileStatus(value string) (CreatorProfileStatus, error) {
	for _, candidate := range validCreatorProfileStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid creator profile status %q", value)
}
