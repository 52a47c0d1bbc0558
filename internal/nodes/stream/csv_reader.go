// Package stream implements long-running, event-emitting producer nodes —
// demonstrations of the streaming-dispatch mechanics (LongRunning,
// EventCallback metadata, ExecuteConnectedNodes per item) that a concrete
// external data source would otherwise exercise. No network or storage
// backend is wired here; that integration is a host concern.
package stream

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"flowboard/internal/node"
	"flowboard/internal/types"
)

// csvDispatcher is the dispatcher hook CSVReaderNode needs to fan out its
// "row" pin once per record instead of waiting for the post-body push
// pass, the same mechanism Sequence and For-Each use.
type csvDispatcher interface {
	ExecuteConnectedNodes(pinID string) error
}

// csvEmitter is the optional telemetry hook; not every ExecutionContext
// implementation needs to support it.
type csvEmitter interface {
	Emit(eventType string, payload interface{})
}

// CSVReaderNode parses its "data" input as CSV and runs its "row" output
// once per record, writing the record's fields (joined by its header row)
// onto the "record" output before each dispatch.
type CSVReaderNode struct {
	node.BaseNode
}

func NewCSVReaderNode() node.Node {
	return &CSVReaderNode{
		BaseNode: node.BaseNode{
			Metadata: node.NodeMetadata{
				TypeID:      "csv-reader",
				Name:        "CSV Reader",
				Description: "Streams parsed rows from CSV text, one dispatch per record",
				Category:    "Stream",
				Version:     "1.0.0",
				LongRunning: true,
			},
			Inputs: []types.Pin{
				{ID: "exec", Name: "Execute", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeExecution}},
				{ID: "data", Name: "CSV Text", Direction: types.PinDirectionInput, Type: types.TypePair{Variable: types.VariableTypeString}},
			},
			Outputs: []types.Pin{
				{ID: "row", Name: "Row", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 0},
				{ID: "record", Name: "Record", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeGeneric, Shape: types.ValueShapeHashMap}, Index: 1},
				{ID: "completed", Name: "Completed", Direction: types.PinDirectionOutput, Type: types.TypePair{Variable: types.VariableTypeExecution}, Index: 2},
			},
		},
	}
}

func (n *CSVReaderNode) Execute(ctx node.ExecutionContext) error {
	dataValue, exists := ctx.GetInputValue("data")
	if !exists {
		return fmt.Errorf("csv-reader: missing required input: data")
	}
	text, err := dataValue.AsString()
	if err != nil {
		return fmt.Errorf("csv-reader: %w", err)
	}

	reader := csv.NewReader(bufio.NewReader(strings.NewReader(text)))
	header, err := reader.Read()
	if err != nil {
		return ctx.ActivateOutputFlow("completed")
	}

	dispatch, canDispatch := ctx.(csvDispatcher)

	count := 0
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		row := make(map[string]interface{}, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		ctx.SetOutputValue("record", types.NewShapedValue(types.VariableTypeGeneric, types.ValueShapeHashMap, row))
		count++
		if emitter, ok := ctx.(csvEmitter); ok {
			emitter.Emit("stream.row", row)
		}

		if canDispatch {
			if err := dispatch.ExecuteConnectedNodes("row"); err != nil {
				return fmt.Errorf("csv-reader: row %d: %w", count, err)
			}
		} else if err := ctx.ActivateOutputFlow("row"); err != nil {
			return err
		}
	}

	ctx.RecordDebugInfo(types.DebugInfo{
		NodeID:      ctx.GetNodeID(),
		Description: "csv stream finished",
		Value:       map[string]interface{}{"rows": count},
		Timestamp:   time.Now(),
	})

	return ctx.ActivateOutputFlow("completed")
}
