package enums

import "fmt"

// ServiceFeeType selects how the platform service fee is charged.
type ServiceFeeType string

const (
	ServiceFeeTypePercentage ServiceFeeType = "percentage"
	ServiceFeeTypeFlat       ServiceFeeType = "flat"
)

// String implements fmt.Stringer.
func (s ServiceFeeType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceFeeType.
func (s ServiceFeeType) IsValid() bool {
	switch s {
	case ServiceFeeTypePercentage, ServiceFeeTypeFlat:
		return true
	}
	return false
}

// ParseServiceFeeType converts raw input into a ServiceFeeType.
func ParseServiceFeeType(value string) (ServiceFeeType, error) {
	switch ServiceFeeType(value) {
	case ServiceFeeTypePercentage:
		return ServiceFeeTypePercentage, nil
	case ServiceFeeTypeFlat:
		return ServiceFeeTypeFlat, nil
	}
	return "", fmt.Errorf("invalid service fee type %q", value)
}
