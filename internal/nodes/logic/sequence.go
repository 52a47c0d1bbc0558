package logic

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"flowboard/internal/node"
	"flowboard/internal/types"
)

// SequenceNode fans out to an ordered, resizable set of execution outputs,
// running each one to completion (via ExecuteConnectedNodes) before moving
// to the next, then fires "completed". The step count is a property
// ("steps") rather than a fixed set of pins; OnUpdate regenerates the
// exec_N pins to match whenever the property changes, so a board editor
// can add or remove steps without the node losing its identity.
type SequenceNode struct {
	node.BaseNode
}

func NewSequenceNode() node.Node {
	n := &SequenceNode{
		BaseNode: node.BaseNode{
			Metadata: node.NodeMetadata{
				TypeID:      "sequence",
				Name:        "Sequence",
				Description: "Executes multiple outputs in order",
				Category:    "Logic",
				Version:     "1.0.0",
			},
			Properties: []types.Property{
				{Name: "steps", Value: 2},
			},
			Inputs: []types.Pin{
				{ID: "exec", Name: "Execute", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeExecution}},
			},
		},
	}
	n.Outputs = sequenceOutputPins(2)
	return n
}

func sequenceOutputPins(steps int) []types.Pin {
	if steps < 1 {
		steps = 1
	}
	pins := make([]types.Pin, 0, steps+1)
	for i := 0; i < steps; i++ {
		pins = append(pins, types.Pin{
			ID:        "exec_" + strconv.Itoa(i+1),
			Name:      "Then " + strconv.Itoa(i+1),
			Direction: types.PinDirectionOutput,
			Type:      types.TypePair{Variable: types.VariableTypeExecution},
			Index:     uint16(i),
		})
	}
	pins = append(pins, types.Pin{
		ID:        "completed",
		Name:      "Completed",
		Direction: types.PinDirectionOutput,
		Type:      types.TypePair{Variable: types.VariableTypeExecution},
		Index:     uint16(steps),
	})
	return pins
}

// OnUpdate regenerates the exec_N pins when the steps property changes,
// preserving any existing edges on pins that survive the resize.
func (n *SequenceNode) OnUpdate(self node.Node, _ node.BoardView) error {
	steps := 2
	for _, p := range n.GetProperties() {
		if p.Name == "steps" {
			if f, ok := p.Value.(float64); ok {
				steps = int(f)
			} else if i, ok := p.Value.(int); ok {
				steps = i
			}
		}
	}
	wanted := sequenceOutputPins(steps)
	existing := make(map[string]types.Pin, len(n.Outputs))
	for _, p := range n.Outputs {
		existing[p.ID] = p
	}
	for i, p := range wanted {
		if old, ok := existing[p.ID]; ok {
			old.Index = p.Index
			wanted[i] = old
		}
	}
	n.Outputs = wanted
	return nil
}

func (n *SequenceNode) Execute(ctx node.ExecutionContext) error {
	pins := append([]types.Pin(nil), n.Outputs...)
	sort.Slice(pins, func(i, j int) bool { return pins[i].Index < pins[j].Index })

	ctx.RecordDebugInfo(types.DebugInfo{
		NodeID:      ctx.GetNodeID(),
		Description: "sequence started",
		Value:       map[string]interface{}{"steps": len(pins) - 1},
		Timestamp:   time.Now(),
	})

	for _, p := range pins {
		if p.ID == "completed" {
			continue
		}
		if err := ctx.ExecuteConnectedNodes(p.ID); err != nil {
			return fmt.Errorf("sequence: step %s: %w", p.ID, err)
		}
	}
	return ctx.ExecuteConnectedNodes("completed")
}
