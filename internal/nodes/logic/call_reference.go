package logic

import (
	"fmt"

	"flowboard/internal/node"
	"flowboard/internal/types"
)

// referenceCaller is the dispatcher-backed hook Call-Reference needs:
// invoke another board node by ID outside the normal edge-following push
// pass. A type assertion keeps this out of the shared ExecutionContext
// interface since no other node body uses it.
type referenceCaller interface {
	CallReference(targetNodeID string, inputs map[string]types.Value) (map[string]types.Value, error)
}

// CallReferenceNode delegates execution to another node on the same board,
// chosen by the "targetNodeId" property. OnUpdate mirrors the target's
// pins onto itself (minus its own exec/target plumbing) so a board editor
// sees the callee's real input/output shape; Execute forwards the mirrored
// inputs, triggers the callee as a delegated sub-call, and copies its
// outputs back onto the mirrored output pins.
type CallReferenceNode struct {
	node.BaseNode
}

func NewCallReferenceNode() node.Node {
	return &CallReferenceNode{
		BaseNode: node.BaseNode{
			Metadata: node.NodeMetadata{
				TypeID:      "call-reference",
				Name:        "Call Reference",
				Description: "Invokes another node on the board as a sub-call",
				Category:    "Logic",
				Version:     "1.0.0",
			},
			Properties: []types.Property{
				{Name: "targetNodeId", Value: ""},
			},
			Inputs: []types.Pin{
				{ID: "exec", Name: "Execute", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeExecution}},
			},
			Outputs: []types.Pin{
				{ID: "then", Name: "Then", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 0},
			},
		},
	}
}

func (n *CallReferenceNode) targetID() string {
	for _, p := range n.GetProperties() {
		if p.Name == "targetNodeId" {
			if s, ok := p.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

// OnUpdate mirrors the referenced node's data pins onto this node, keyed
// by a "ref_" prefix so they never collide with the fixed exec/then pins.
func (n *CallReferenceNode) OnUpdate(self node.Node, board node.BoardView) error {
	target := n.targetID()
	if target == "" {
		return nil
	}
	ref, ok := board.NodeByID(target)
	if !ok {
		return fmt.Errorf("call-reference: target node %s not found", target)
	}

	inputs := []types.Pin{n.Inputs[0]} // keep "exec"
	for _, p := range ref.GetInputPins() {
		if p.IsExecution() {
			continue
		}
		mirrored := p
		mirrored.ID = "ref_in_" + p.ID
		inputs = append(inputs, mirrored)
	}
	n.Inputs = inputs

	outputs := []types.Pin{n.Outputs[0]} // keep "then"
	for _, p := range ref.GetOutputPins() {
		if p.IsExecution() {
			continue
		}
		mirrored := p
		mirrored.ID = "ref_out_" + p.ID
		outputs = append(outputs, mirrored)
	}
	n.Outputs = outputs
	return nil
}

func (n *CallReferenceNode) Execute(ctx node.ExecutionContext) error {
	target := n.targetID()
	if target == "" {
		return fmt.Errorf("call-reference: no targetNodeId configured")
	}
	caller, ok := ctx.(referenceCaller)
	if !ok {
		return fmt.Errorf("call-reference: execution context does not support delegated calls")
	}

	inputs := make(map[string]types.Value)
	for _, p := range n.Inputs {
		if p.IsExecution() {
			continue
		}
		if v, exists := ctx.GetInputValue(p.ID); exists {
			inputs[p.ID[len("ref_in_"):]] = v
		}
	}

	outputs, err := caller.CallReference(target, inputs)
	if err != nil {
		return fmt.Errorf("call-reference: %w", err)
	}
	for _, p := range n.Outputs {
		if p.IsExecution() {
			continue
		}
		if v, ok := outputs[p.ID[len("ref_out_"):]]; ok {
			ctx.SetOutputValue(p.ID, v)
		}
	}

	return ctx.ActivateOutputFlow("then")
}
