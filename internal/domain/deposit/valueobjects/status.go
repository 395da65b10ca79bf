package valueobjects

import (
	"fmt"
	"regexp"
	"strings"
)

// Status is a deposit's lifecycle state. pending, approved and rejected are
// well known; operators may also use their own values, which are inert with
// respect to crediting.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

const maxStatusLength = 32

var statusPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// NewStatus normalizes s and checks that it is a usable status token.
func NewStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return "", fmt.Errorf("status is required")
	}
	if len(normalized) > maxStatusLength {
		return "", fmt.Errorf("status must be at most %d characters", maxStatusLength)
	}
	if !statusPattern.MatchString(normalized) {
		return "", fmt.Errorf("status %q contains invalid characters", s)
	}
	return Status(normalized), nil
}

func (s Status) IsApproved() bool {
	return s == StatusApproved
}

func (s Status) IsPending() bool {
	return s == StatusPending
}

func (s Status) String() string {
	return string(s)
}
