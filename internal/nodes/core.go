// Package nodes assembles the built-in node catalog into a single factory
// table, handed to internal/registry at startup.
package nodes

import (
	"flowboard/internal/node"
	"flowboard/internal/nodes/data"
	"flowboard/internal/nodes/logic"
	"flowboard/internal/nodes/math"
	"flowboard/internal/nodes/stream"
)

// Core maps every built-in node type ID to its factory.
var Core = map[string]node.NodeFactory{
	"if-condition":    logic.NewIfConditionNode,
	"sequence":        logic.NewSequenceNode,
	"branch":          logic.NewBranchNode,
	"for-each":        logic.NewForEachNode,
	"call-reference":  logic.NewCallReferenceNode,
	"switch-on-type":  logic.NewSwitchOnTypeNode,

	"constant-string":  data.NewStringConstantNode,
	"constant-number":  data.NewNumberConstantNode,
	"constant-boolean": data.NewBooleanConstantNode,
	"variable-get":     data.NewVariableGetNode,
	"variable-set":     data.NewVariableSetNode,

	"math-add":      math.NewAddNode,
	"math-subtract": math.NewSubtractNode,
	"math-multiply": math.NewMultiplyNode,
	"math-divide":   math.NewDivideNode,

	"csv-reader": stream.NewCSVReaderNode,
}
