package types

import "fmt"

// ValidateConnection checks whether an output pin (p) may connect to an
// input pin (target), independent of board-level rules (self-loops, fan-in
// limits) which live in pkg/board/commands since they need node identity.
func (p *Pin) ValidateConnection(target *Pin) error {
	if p.Direction != PinDirectionOutput {
		return fmt.Errorf("connection source %s is not an output pin", p.ID)
	}
	if target.Direction != PinDirectionInput {
		return fmt.Errorf("connection target %s is not an input pin", target.ID)
	}

	srcExec := p.Type.Variable == VariableTypeExecution
	dstExec := target.Type.Variable == VariableTypeExecution
	if srcExec != dstExec {
		return fmt.Errorf("cannot connect %s pin to %s pin", p.Type.Variable, target.Type.Variable)
	}
	if srcExec {
		// Execution pins carry no data type to unify.
		return nil
	}

	if p.Type.IsGeneric() || target.Type.IsGeneric() {
		return nil
	}

	if p.Type.Variable != target.Type.Variable {
		return fmt.Errorf("incompatible pin types: %s -> %s", p.Type.Variable, target.Type.Variable)
	}
	if p.Options != nil && p.Options.EnforceGenericValueType && p.Type.Shape != target.Type.Shape {
		return fmt.Errorf("incompatible value shapes: %s -> %s", p.Type.Shape, target.Type.Shape)
	}
	return nil
}

// UnifyGeneric implements the Generic-unification rule: if exactly one side
// is Generic, it adopts the other side's concrete type pair; if both are
// Generic, neither changes (unification is deferred further). Returns true
// if a pin's type was mutated.
func UnifyGeneric(source, target *Pin) bool {
	sourceGeneric := source.Type.IsGeneric()
	targetGeneric := target.Type.IsGeneric()

	switch {
	case sourceGeneric && !targetGeneric:
		source.Type = target.Type
		return true
	case targetGeneric && !sourceGeneric:
		target.Type = source.Type
		return true
	default:
		return false
	}
}
