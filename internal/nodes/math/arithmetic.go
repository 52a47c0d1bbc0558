// Package math implements basic numeric operator nodes.
package math

import (
	"fmt"

	"flowboard/internal/node"
	"flowboard/internal/types"
)

type binaryOp struct {
	node.BaseNode
	apply func(a, b float64) (float64, error)
}

func newBinaryOp(typeID, name, description string, apply func(a, b float64) (float64, error)) node.Node {
	return &binaryOp{
		BaseNode: node.BaseNode{
			Metadata: node.NodeMetadata{
				TypeID:      typeID,
				Name:        name,
				Description: description,
				Category:    "Math",
				Version:     "1.0.0",
			},
			Inputs: []types.Pin{
				{ID: "a", Name: "A", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeFloat}},
				{ID: "b", Name: "B", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeFloat}},
			},
			Outputs: []types.Pin{
				{ID: "result", Name: "Result", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeFloat}},
			},
		},
		apply: apply,
	}
}

func (n *binaryOp) Execute(ctx node.ExecutionContext) error {
	av, ok := ctx.GetInputValue("a")
	if !ok {
		return fmt.Errorf("%s: missing required input: a", n.Metadata.TypeID)
	}
	bv, ok := ctx.GetInputValue("b")
	if !ok {
		return fmt.Errorf("%s: missing required input: b", n.Metadata.TypeID)
	}
	a, err := av.AsNumber()
	if err != nil {
		return fmt.Errorf("%s: %w", n.Metadata.TypeID, err)
	}
	b, err := bv.AsNumber()
	if err != nil {
		return fmt.Errorf("%s: %w", n.Metadata.TypeID, err)
	}
	result, err := n.apply(a, b)
	if err != nil {
		return fmt.Errorf("%s: %w", n.Metadata.TypeID, err)
	}
	ctx.SetOutputValue("result", types.NewValue(types.VariableTypeFloat, result))
	return nil
}

func NewAddNode() node.Node {
	return newBinaryOp("math-add", "Add", "Adds two numbers", func(a, b float64) (float64, error) { return a + b, nil })
}

func NewSubtractNode() node.Node {
	return newBinaryOp("math-subtract", "Subtract", "Subtracts two numbers", func(a, b float64) (float64, error) { return a - b, nil })
}

func NewMultiplyNode() node.Node {
	return newBinaryOp("math-multiply", "Multiply", "Multiplies two numbers", func(a, b float64) (float64, error) { return a * b, nil })
}

func NewDivideNode() node.Node {
	return newBinaryOp("math-divide", "Divide", "Divides two numbers", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	})
}
