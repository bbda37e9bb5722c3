package enums

import "fmt"

// ComplaintStatus describes the allowed values for the complaints.status column.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "open"
	ComplaintStatusRead       ComplaintStatus = "read"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusRejected   ComplaintStatus = "rejected"
)

var validComplaintStatuses = []ComplaintStatus{
	ComplaintStatusOpen,
	ComplaintStatusRead,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
	ComplaintStatusRejected,
}

// IsValid reports whether the value matches the canonical complaint status enum.
func (c ComplaintStatus) IsValid() bool {
	for _, candidate := range validComplaintStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseComplaintStatus converts the raw string to ComplaintStatus.
func ParseComplaintStatus(value string) (ComplaintStatus, error) {
	for _, candidate := range validComplaintStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid complaint status %q", value)
}

// ComplaintReason describes the allowed values for the complaints.reason column.
type ComplaintReason string

const (
	ComplaintReasonDishQuality   ComplaintReason = "dish_quality"
	ComplaintReasonDeliveryDelay ComplaintReason = "delivery_delay"
	ComplaintReasonOrderError    ComplaintReason = "order_error"
	ComplaintReasonOther         ComplaintReason = "other"
)

var validComplaintReasons = []ComplaintReason{
	ComplaintReasonDishQuality,
	ComplaintReasonDeliveryDelay,
	ComplaintReasonOrderError,
	ComplaintReasonOther,
}

// IsValid reports whether the value matches the canonical complaint reason enum.
func (c ComplaintReason) IsValid() bool {
	for _, candidate := range validComplaintReasons {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseComplaintReason converts the raw string to ComplaintReason.
func ParseComplaintReason(value string) (ComplaintReason, error) {
	for _, candidate := range validComplaintReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid complaint reason %q", value)
}
