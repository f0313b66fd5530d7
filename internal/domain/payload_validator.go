package domain

import (
	"fmt"
	"sort"

	"github.com/asaskevich/govalidator"
)

// FieldType is the declared type of a required or optional payload field.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeNumber FieldType = "number"
	FieldTypeEnum   FieldType = "enum"
)

// FieldContract declares one field's shape within an event kind's contract.
type FieldContract struct {
	Name     string
	Type     FieldType
	Required bool
	// OneOf restricts an enum field to a closed set of string values.
	OneOf []string
	// Positive requires a number field to be > 0.
	Positive bool
	// ExactLen requires a string field to have exactly this many characters
	// (used for 3-letter currency codes).
	ExactLen int
}

// eventContracts declares the required/optional fields for every event
// kind. All kinds additionally carry a numeric "timestamp" and a "userId",
// checked separately rather than repeated in every entry below.
var eventContracts = map[EventKind][]FieldContract{
	EventAppCreated: {
		{Name: "appId", Type: FieldTypeString, Required: true},
		{Name: "appName", Type: FieldTypeString, Required: true},
		{Name: "userId", Type: FieldTypeString, Required: true},
	},
	EventAppDeployed: {
		{Name: "appId", Type: FieldTypeString, Required: true},
		{Name: "appName", Type: FieldTypeString, Required: true},
		{Name: "userId", Type: FieldTypeString, Required: true},
		{Name: "deploymentUrl", Type: FieldTypeString, Required: true},
		{Name: "environment", Type: FieldTypeEnum, Required: true, OneOf: []string{"preview", "production"}},
	},
	EventAppExported: {
		{Name: "appId", Type: FieldTypeString, Required: true},
		{Name: "userId", Type: FieldTypeString, Required: true},
	},
	EventAppError: {
		{Name: "appId", Type: FieldTypeString, Required: true},
		{Name: "userId", Type: FieldTypeString, Required: true},
		{Name: "message", Type: FieldTypeString, Required: true},
	},
	EventGenerationComplete: {
		{Name: "appId", Type: FieldTypeString, Required: true},
		{Name: "userId", Type: FieldTypeString, Required: true},
	},
	EventDeploymentComplete: {
		{Name: "appId", Type: FieldTypeString, Required: true},
		{Name: "userId", Type: FieldTypeString, Required: true},
		{Name: "deploymentUrl", Type: FieldTypeString, Required: true},
	},
	EventUserRegistered: {
		{Name: "userId", Type: FieldTypeString, Required: true},
		{Name: "email", Type: FieldTypeString, Required: false},
	},
	EventUserVerified: {
		{Name: "userId", Type: FieldTypeString, Required: true},
	},
	EventPaymentSuccess: {
		{Name: "userId", Type: FieldTypeString, Required: true},
		{Name: "amount", Type: FieldTypeNumber, Required: true, Positive: true},
		{Name: "currency", Type: FieldTypeString, Required: true, ExactLen: 3},
	},
	EventPaymentFailed: {
		{Name: "userId", Type: FieldTypeString, Required: true},
		{Name: "amount", Type: FieldTypeNumber, Required: true, Positive: true},
		{Name: "currency", Type: FieldTypeString, Required: true, ExactLen: 3},
	},
}

// ContractFor returns the declared field contract for an event kind, for
// callers (e.g. the admin event-catalog endpoint) that want to surface it.
func ContractFor(kind EventKind) ([]FieldContract, bool) {
	c, ok := eventContracts[kind]
	return c, ok
}

// ValidatePayload checks payload against kind's declared field contract.
// It returns a list of human-readable errors; an empty list means valid.
// An unknown event kind is itself the sole error.
func ValidatePayload(kind EventKind, payload map[string]interface{}) []string {
	contract, ok := eventContracts[kind]
	if !ok {
		return []string{fmt.Sprintf("unknown event kind: %s", kind)}
	}

	var errs []string

	for _, field := range contract {
		raw, present := payload[field.Name]
		if !present {
			if field.Required {
				errs = append(errs, fmt.Sprintf("missing required field %q", field.Name))
			}
			continue
		}

		switch field.Type {
		case FieldTypeString, FieldTypeEnum:
			s, ok := raw.(string)
			if !ok {
				errs = append(errs, fmt.Sprintf("field %q must be a string", field.Name))
				continue
			}
			if field.ExactLen > 0 && len(s) != field.ExactLen {
				errs = append(errs, fmt.Sprintf("field %q must be exactly %d characters", field.Name, field.ExactLen))
			}
			if field.Type == FieldTypeEnum && !contains(field.OneOf, s) {
				errs = append(errs, fmt.Sprintf("field %q must be one of %v", field.Name, field.OneOf))
			}
		case FieldTypeNumber:
			n, ok := asFloat(raw)
			if !ok {
				errs = append(errs, fmt.Sprintf("field %q must be a number", field.Name))
				continue
			}
			if field.Positive && n <= 0 {
				errs = append(errs, fmt.Sprintf("field %q must be greater than 0", field.Name))
			}
		}
	}

	if email, ok := payload["email"].(string); ok && email != "" {
		if !govalidator.IsEmail(email) {
			errs = append(errs, `field "email" must match a valid email shape`)
		}
	}

	sort.Strings(errs)
	return errs
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
