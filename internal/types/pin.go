package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PinOptions holds the advisory/enforced editor metadata a pin can declare:
// an enum of valid string values, a numeric range+step, and the two
// schema/shape enforcement flags.
type PinOptions struct {
	ValidValues             []string `json:"validValues,omitempty"`
	RangeMin                *float64 `json:"rangeMin,omitempty"`
	RangeMax                *float64 `json:"rangeMax,omitempty"`
	Step                    *float64 `json:"step,omitempty"`
	EnforceSchema           bool     `json:"enforceSchema,omitempty"`
	EnforceGenericValueType bool     `json:"enforceGenericValueType,omitempty"`
	Sensitive               bool     `json:"sensitive,omitempty"`
}

// ValueSlot is the transient, per-pin runtime value holder. It is never
// serialized (it only exists for the lifetime of a run) and is guarded by
// its own mutex so two successor nodes reading the same output while the
// producer is still writing serialize on this lock rather than racing.
type ValueSlot struct {
	mu  sync.Mutex
	val Value
	set bool
}

// Get returns the current value and whether one has been written.
func (s *ValueSlot) Get() (Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.val, s.set
}

// Set stores a value into the slot.
func (s *ValueSlot) Set(v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.val = v
	s.set = true
}

// Pin is an input or output connection point on a node.
type Pin struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	FriendlyName  string       `json:"friendlyName"`
	Description   string       `json:"description"`
	Direction     PinDirection `json:"direction"`
	Type          TypePair     `json:"type"`
	Schema        string       `json:"schema,omitempty"`
	DefaultValue  []byte       `json:"defaultValue,omitempty"`
	Index         uint16       `json:"index"`
	Options       *PinOptions  `json:"options,omitempty"`
	DependsOn     []string     `json:"dependsOn,omitempty"`
	ConnectedTo   []string     `json:"connectedTo,omitempty"`

	// slot is the transient runtime value, never persisted.
	slot *ValueSlot
}

// Slot lazily allocates and returns this pin's runtime value slot.
func (p *Pin) Slot() *ValueSlot {
	if p.slot == nil {
		p.slot = &ValueSlot{}
	}
	return p.slot
}

// IsExecution reports whether this is a control-flow pin rather than a data pin.
func (p *Pin) IsExecution() bool {
	return p.Type.Variable == VariableTypeExecution
}

// DefaultAsValue decodes the pin's opaque default-value blob into a typed
// Value. Execution pins and pins without a default both yield the zero
// Value.
func (p *Pin) DefaultAsValue() (Value, error) {
	if p.IsExecution() || len(p.DefaultValue) == 0 {
		return Value{Type: p.Type}, nil
	}
	var raw interface{}
	if err := json.Unmarshal(p.DefaultValue, &raw); err != nil {
		return Value{}, fmt.Errorf("pin %s: decode default value: %w", p.ID, err)
	}
	return Value{Type: p.Type, Raw: raw}, nil
}

// CoerceNumeric clamps a numeric value to the pin's advertised range and
// snaps it to the declared step. Range/step are advisory for editors but
// must be honored by numeric setters.
func (p *Pin) CoerceNumeric(v float64) float64 {
	if p.Options == nil {
		return v
	}
	if p.Options.RangeMin != nil && v < *p.Options.RangeMin {
		v = *p.Options.RangeMin
	}
	if p.Options.RangeMax != nil && v > *p.Options.RangeMax {
		v = *p.Options.RangeMax
	}
	if p.Options.Step != nil && *p.Options.Step > 0 {
		steps := (v) / *p.Options.Step
		v = float64(int64(steps+0.5)) * *p.Options.Step
	}
	return v
}

// ValidateEnum checks a string value against the pin's declared enum of
// valid values, when one is configured.
func (p *Pin) ValidateEnum(s string) error {
	if p.Options == nil || len(p.Options.ValidValues) == 0 {
		return nil
	}
	for _, v := range p.Options.ValidValues {
		if v == s {
			return nil
		}
	}
	return fmt.Errorf("pin %s: %q is not one of %v", p.ID, s, p.Options.ValidValues)
}

// ValidateSchema enforces the pin's JSON schema against a candidate value
// when EnforceSchema is set.
func (p *Pin) ValidateSchema(raw interface{}) error {
	if p.Options == nil || !p.Options.EnforceSchema || p.Schema == "" {
		return nil
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(p.ID+".json", strings.NewReader(p.Schema)); err != nil {
		return fmt.Errorf("pin %s: invalid schema: %w", p.ID, err)
	}
	schema, err := compiler.Compile(p.ID + ".json")
	if err != nil {
		return fmt.Errorf("pin %s: compile schema: %w", p.ID, err)
	}
	if err := schema.Validate(raw); err != nil {
		return fmt.Errorf("pin %s: schema validation failed: %w", p.ID, err)
	}
	return nil
}

// Evaluate reads the pin's current runtime value, applying schema
// enforcement when requested. Rejects a value that fails validation
// instead of silently coercing it.
func (p *Pin) Evaluate() (Value, error) {
	slot := p.Slot()
	v, ok := slot.Get()
	if !ok {
		return p.DefaultAsValue()
	}
	if err := p.ValidateSchema(v.Raw); err != nil {
		return Value{}, err
	}
	return v, nil
}

// Write stores a value into the pin's runtime slot (outputs only, per
// convention enforced by callers).
func (p *Pin) Write(v Value) error {
	if err := p.ValidateSchema(v.Raw); err != nil {
		return err
	}
	if s, ok := v.Raw.(string); ok && p.Type.Variable == VariableTypeString {
		if err := p.ValidateEnum(s); err != nil {
			return err
		}
	}
	p.Slot().Set(v)
	return nil
}
