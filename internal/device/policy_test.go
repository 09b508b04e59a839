package device

import (
	"errors"
	"sort"
	"testing"
)

func TestAllowedParameters(t *testing.T) {
	tests := []struct {
		name       string
		deviceType DeviceType
		want       []string
	}{
		{
			name:       "water heater",
			deviceType: DeviceTypeWaterHeater,
			want: []string{
				"is_heating", "scheduled_off", "scheduled_on",
				"target_temperature", "temperature", "timer_enabled",
			},
		},
		{
			name:       "light",
			deviceType: DeviceTypeLight,
			want:       []string{"brightness", "color", "dynamic_color", "is_dimmable"},
		},
		{
			name:       "air conditioner",
			deviceType: DeviceTypeAirConditioner,
			want:       []string{"fan_speed", "mode", "swing", "temperature"},
		},
		{
			name:       "door lock",
			deviceType: DeviceTypeDoorLock,
			want:       []string{"auto_lock_enabled", "battery_level"},
		},
		{
			name:       "curtain",
			deviceType: DeviceTypeCurtain,
			want:       []string{"position"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AllowedParameters(tt.deviceType)
			if err != nil {
				t.Fatalf("AllowedParameters(%q) error = %v", tt.deviceType, err)
			}
			sort.Strings(got)
			if len(got) != len(tt.want) {
				t.Fatalf("AllowedParameters(%q) = %v, want %v", tt.deviceType, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("AllowedParameters(%q)[%d] = %q, want %q", tt.deviceType, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestAllowedParameters_UnknownType(t *testing.T) {
	_, err := AllowedParameters("toaster")
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("AllowedParameters() error = %v, want ErrUnknownType", err)
	}
}

func TestParameterPolicy(t *testing.T) {
	tests := []struct {
		name       string
		deviceType DeviceType
		param      string
		wantSem    Semantics
	}{
		{"water heater temperature is gauge", DeviceTypeWaterHeater, "temperature", SemanticsGauge},
		{"water heater is_heating is flag", DeviceTypeWaterHeater, "is_heating", SemanticsFlag},
		{"water heater scheduled_on is schedule", DeviceTypeWaterHeater, "scheduled_on", SemanticsSchedule},
		{"water heater scheduled_off is schedule", DeviceTypeWaterHeater, "scheduled_off", SemanticsSchedule},
		{"light brightness is gauge", DeviceTypeLight, "brightness", SemanticsGauge},
		{"light color is color", DeviceTypeLight, "color", SemanticsColor},
		{"light is_dimmable is read-only", DeviceTypeLight, "is_dimmable", SemanticsReadOnly},
		{"ac mode is categorical", DeviceTypeAirConditioner, "mode", SemanticsCategorical},
		{"lock battery_level is gauge", DeviceTypeDoorLock, "battery_level", SemanticsGauge},
		{"curtain position is read-only", DeviceTypeCurtain, "position", SemanticsReadOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParameterPolicy(tt.deviceType, tt.param)
			if err != nil {
				t.Fatalf("ParameterPolicy(%q, %q) error = %v", tt.deviceType, tt.param, err)
			}
			if spec.Semantics != tt.wantSem {
				t.Errorf("ParameterPolicy(%q, %q).Semantics = %v, want %v",
					tt.deviceType, tt.param, spec.Semantics, tt.wantSem)
			}
		})
	}
}

func TestParameterPolicy_Categories(t *testing.T) {
	tests := []struct {
		param string
		want  []string
	}{
		{"mode", []string{"cool", "heat", "fan"}},
		{"fan_speed", []string{"off", "low", "medium", "high"}},
		{"swing", []string{"off", "on", "auto"}},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			spec, err := ParameterPolicy(DeviceTypeAirConditioner, tt.param)
			if err != nil {
				t.Fatalf("ParameterPolicy() error = %v", err)
			}
			if len(spec.Categories) != len(tt.want) {
				t.Fatalf("Categories = %v, want %v", spec.Categories, tt.want)
			}
			for i := range tt.want {
				if spec.Categories[i] != tt.want[i] {
					t.Errorf("Categories[%d] = %q, want %q", i, spec.Categories[i], tt.want[i])
				}
			}
		})
	}
}

func TestParameterPolicy_Errors(t *testing.T) {
	_, err := ParameterPolicy("toaster", "temperature")
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("ParameterPolicy(unknown type) error = %v, want ErrUnknownType", err)
	}

	_, err = ParameterPolicy(DeviceTypeLight, "temperature")
	if !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("ParameterPolicy(unknown param) error = %v, want ErrUnknownParameter", err)
	}
}

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name       string
		deviceType DeviceType
		params     map[string]any
		wantErr    error
	}{
		{
			name:       "valid water heater params",
			deviceType: DeviceTypeWaterHeater,
			params:     map[string]any{"temperature": 55.0, "is_heating": true},
		},
		{
			name:       "empty params always valid",
			deviceType: DeviceTypeLight,
			params:     map[string]any{},
		},
		{
			name:       "nil params always valid",
			deviceType: DeviceTypeCurtain,
			params:     nil,
		},
		{
			name:       "read-only params are accepted",
			deviceType: DeviceTypeLight,
			params:     map[string]any{"is_dimmable": true, "dynamic_color": false},
		},
		{
			name:       "parameter from another type",
			deviceType: DeviceTypeLight,
			params:     map[string]any{"battery_level": 80},
			wantErr:    ErrUnknownParameter,
		},
		{
			name:       "unknown type",
			deviceType: "toaster",
			params:     map[string]any{"temperature": 200},
			wantErr:    ErrUnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParameters(tt.deviceType, tt.params)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateParameters() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateParameters() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidType(t *testing.T) {
	for _, dt := range AllDeviceTypes() {
		if !ValidType(dt) {
			t.Errorf("ValidType(%q) = false, want true", dt)
		}
	}
	if ValidType("toaster") {
		t.Error(`ValidType("toaster") = true, want false`)
	}
}
