package commands

import (
	"fmt"

	"flowboard/pkg/board"
)

// ConnectPinCommand wires an output pin to an input pin. An execution
// output may drive only one input at a time, so connecting one displaces
// whatever input it drove before; a data output may fan out to any number
// of inputs, so connecting one only adds to its ConnectedTo set. Either
// way, an input pin may be fed by only one output at a time: connecting a
// new source displaces whatever source fed it before, clearing that
// source's own ConnectedTo entry for this input. Undo restores exactly
// the displaced edges rather than just removing the new one.
type ConnectPinCommand struct {
	FromNode string `json:"fromNode"`
	FromPin  string `json:"fromPin"`
	ToNode   string `json:"toNode"`
	ToPin    string `json:"toPin"`

	displacedFrom string // previous ConnectedTo target of FromPin, execution outputs only
	displacedTo   string // previous DependsOn source of ToPin, if any
}

func (c *ConnectPinCommand) Execute(b *board.Board) error {
	if c.FromNode == c.ToNode {
		return fmt.Errorf("cannot connect a node to itself")
	}
	if c.FromPin == c.ToPin {
		return fmt.Errorf("cannot connect a pin to itself")
	}

	fromNode, ok := b.Nodes[c.FromNode]
	if !ok {
		return fmt.Errorf("node %s not found", c.FromNode)
	}
	toNode, ok := b.Nodes[c.ToNode]
	if !ok {
		return fmt.Errorf("node %s not found", c.ToNode)
	}
	fromPin, ok := fromNode.Pins[c.FromPin]
	if !ok {
		return fmt.Errorf("pin %s not found on node %s", c.FromPin, c.FromNode)
	}
	toPin, ok := toNode.Pins[c.ToPin]
	if !ok {
		return fmt.Errorf("pin %s not found on node %s", c.ToPin, c.ToNode)
	}

	if err := fromPin.ValidateConnection(toPin); err != nil {
		return err
	}

	// An input pin is fed by only one output at a time: displace whatever
	// source drove it before, and clear that source's own edge to it so a
	// fanned-out data output doesn't keep a stale consumer.
	if len(toPin.DependsOn) > 0 {
		c.displacedTo = toPin.DependsOn[0]
		if _, displacedPin, found := b.GetPinByID(c.displacedTo); found {
			displacedPin.ConnectedTo = removeString(displacedPin.ConnectedTo, toPin.ID)
		}
	}

	if fromPin.IsExecution() {
		// An execution output drives only one input at a time.
		if len(fromPin.ConnectedTo) > 0 {
			c.displacedFrom = fromPin.ConnectedTo[0]
		}
		fromPin.ConnectedTo = []string{toPin.ID}
	} else {
		// Data outputs fan out to any number of consumers.
		fromPin.ConnectedTo = append(fromPin.ConnectedTo, toPin.ID)
	}
	toPin.DependsOn = []string{fromPin.ID}

	b.FixPins()
	return nil
}

func (c *ConnectPinCommand) Undo(b *board.Board) error {
	fromNode, ok := b.Nodes[c.FromNode]
	if !ok {
		return fmt.Errorf("node %s not found", c.FromNode)
	}
	toNode, ok := b.Nodes[c.ToNode]
	if !ok {
		return fmt.Errorf("node %s not found", c.ToNode)
	}
	fromPin, ok := fromNode.Pins[c.FromPin]
	if !ok {
		return fmt.Errorf("pin %s not found on node %s", c.FromPin, c.FromNode)
	}
	toPin, ok := toNode.Pins[c.ToPin]
	if !ok {
		return fmt.Errorf("pin %s not found on node %s", c.ToPin, c.ToNode)
	}

	if fromPin.IsExecution() {
		if c.displacedFrom != "" {
			fromPin.ConnectedTo = []string{c.displacedFrom}
		} else {
			fromPin.ConnectedTo = nil
		}
	} else {
		fromPin.ConnectedTo = removeString(fromPin.ConnectedTo, toPin.ID)
	}

	if c.displacedTo != "" {
		toPin.DependsOn = []string{c.displacedTo}
		if _, displacedPin, found := b.GetPinByID(c.displacedTo); found {
			displacedPin.ConnectedTo = append(displacedPin.ConnectedTo, toPin.ID)
		}
	} else {
		toPin.DependsOn = nil
	}

	b.FixPins()
	return nil
}

// DisconnectPinCommand removes a single edge between two pins.
type DisconnectPinCommand struct {
	FromNode string `json:"fromNode"`
	FromPin  string `json:"fromPin"`
	ToNode   string `json:"toNode"`
	ToPin    string `json:"toPin"`
}

func (c *DisconnectPinCommand) Execute(b *board.Board) error {
	fromNode, ok := b.Nodes[c.FromNode]
	if !ok {
		return fmt.Errorf("from node %s not found", c.FromNode)
	}
	toNode, ok := b.Nodes[c.ToNode]
	if !ok {
		return fmt.Errorf("to node %s not found", c.ToNode)
	}
	fromPin, ok := fromNode.Pins[c.FromPin]
	if !ok {
		return fmt.Errorf("from pin %s not found", c.FromPin)
	}
	toPin, ok := toNode.Pins[c.ToPin]
	if !ok {
		return fmt.Errorf("to pin %s not found", c.ToPin)
	}

	fromPin.ConnectedTo = removeString(fromPin.ConnectedTo, toPin.ID)
	toPin.DependsOn = removeString(toPin.DependsOn, fromPin.ID)

	b.FixPins()
	return nil
}

func (c *DisconnectPinCommand) Undo(b *board.Board) error {
	connect := &ConnectPinCommand{FromNode: c.FromNode, FromPin: c.FromPin, ToNode: c.ToNode, ToPin: c.ToPin}
	return connect.Execute(b)
}

func removeString(ss []string, target string) []string {
	out := ss[:0]
	for _, s := range ss {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}
