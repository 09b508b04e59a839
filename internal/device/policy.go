package device

import "fmt"

// Semantics classifies how a parameter's value is interpreted and projected
// into metrics. Every legal (device type, parameter) pair maps to exactly
// one semantics class.
type Semantics int

// Semantics constants.
const (
	// SemanticsGauge is a numeric value written to a single-sample gauge.
	SemanticsGauge Semantics = iota

	// SemanticsFlag is a boolean written as a mutually exclusive labelled
	// pair: the true-label sample is set to 1 and the false-label to 0,
	// or vice versa.
	SemanticsFlag

	// SemanticsCategorical is a one-of-N string from a closed list. The
	// selected category's sample is set to 1 and every other to 0.
	SemanticsCategorical

	// SemanticsColor is a "#RRGGBB" string projected as its 24-bit integer
	// value. Parse failures are logged and skipped, never fatal.
	SemanticsColor

	// SemanticsSchedule is a time string projected jointly with its sibling
	// schedule key into one labelled gauge.
	SemanticsSchedule

	// SemanticsReadOnly is accepted and stored but never projected.
	SemanticsReadOnly
)

// ParameterSpec describes the policy for one (device type, parameter) pair.
type ParameterSpec struct {
	Semantics Semantics

	// Categories is the closed value list for SemanticsCategorical
	// parameters; nil otherwise.
	Categories []string
}

// Categorical value lists.
var (
	acModes      = []string{"cool", "heat", "fan"}
	acFanSpeeds  = []string{"off", "low", "medium", "high"}
	acSwingModes = []string{"off", "on", "auto"}
)

// parameterPolicies is the complete policy table. A device type's entry
// enumerates every parameter name that is legal for it; anything else is
// rejected with ErrUnknownParameter.
var parameterPolicies = map[DeviceType]map[string]ParameterSpec{
	DeviceTypeWaterHeater: {
		"temperature":        {Semantics: SemanticsGauge},
		"target_temperature": {Semantics: SemanticsGauge},
		"is_heating":         {Semantics: SemanticsFlag},
		"timer_enabled":      {Semantics: SemanticsFlag},
		"scheduled_on":       {Semantics: SemanticsSchedule},
		"scheduled_off":      {Semantics: SemanticsSchedule},
	},
	DeviceTypeLight: {
		"brightness":    {Semantics: SemanticsGauge},
		"color":         {Semantics: SemanticsColor},
		"is_dimmable":   {Semantics: SemanticsReadOnly},
		"dynamic_color": {Semantics: SemanticsReadOnly},
	},
	DeviceTypeAirConditioner: {
		"temperature": {Semantics: SemanticsGauge},
		"mode":        {Semantics: SemanticsCategorical, Categories: acModes},
		"fan_speed":   {Semantics: SemanticsCategorical, Categories: acFanSpeeds},
		"swing":       {Semantics: SemanticsCategorical, Categories: acSwingModes},
	},
	DeviceTypeDoorLock: {
		"battery_level":     {Semantics: SemanticsGauge},
		"auto_lock_enabled": {Semantics: SemanticsReadOnly},
	},
	DeviceTypeCurtain: {
		"position": {Semantics: SemanticsReadOnly},
	},
}

// AllowedParameters returns the legal parameter names for a device type.
//
// Returns:
//   - []string: The parameter names, in no particular order
//   - error: ErrUnknownType if the type is not in the policy table
func AllowedParameters(t DeviceType) ([]string, error) {
	policies, ok := parameterPolicies[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	return names, nil
}

// ParameterPolicy returns the spec governing one parameter of a device type.
//
// Returns:
//   - ParameterSpec: The semantics class (and categories, if categorical)
//   - error: ErrUnknownType or ErrUnknownParameter
func ParameterPolicy(t DeviceType, name string) (ParameterSpec, error) {
	policies, ok := parameterPolicies[t]
	if !ok {
		return ParameterSpec{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	spec, ok := policies[name]
	if !ok {
		return ParameterSpec{}, fmt.Errorf("%w: %q for type %q", ErrUnknownParameter, name, t)
	}
	return spec, nil
}

// ValidateParameters checks that every key in params is legal for the device
// type. Values are not checked here; value interpretation happens at
// projection time per the parameter's semantics.
//
// Returns:
//   - error: ErrUnknownType, or ErrUnknownParameter naming the first illegal key
func ValidateParameters(t DeviceType, params map[string]any) error {
	policies, ok := parameterPolicies[t]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	for name := range params {
		if _, ok := policies[name]; !ok {
			return fmt.Errorf("%w: %q for type %q", ErrUnknownParameter, name, t)
		}
	}
	return nil
}

// ValidType reports whether t is a known device type.
func ValidType(t DeviceType) bool {
	_, ok := parameterPolicies[t]
	return ok
}
