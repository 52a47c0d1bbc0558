package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowboard/internal/nodes/stream"
	"flowboard/internal/nodetest"
	"flowboard/internal/types"
)

func TestCSVReaderNode_DispatchesOncePerRecord(t *testing.T) {
	n := stream.NewCSVReaderNode()
	ctx := nodetest.New("c1", "csv-reader")
	ctx.Inputs["data"] = types.NewValue(types.VariableTypeString, "name,age\nalice,30\nbob,40\n")

	require.NoError(t, n.Execute(ctx))
	assert.Equal(t, 2, ctx.Connected["row"])
	assert.Equal(t, []string{"completed"}, ctx.Activated)
}

func TestCSVReaderNode_LastRecordVisible(t *testing.T) {
	n := stream.NewCSVReaderNode()
	ctx := nodetest.New("c1", "csv-reader")
	ctx.Inputs["data"] = types.NewValue(types.VariableTypeString, "name,age\nalice,30\nbob,40\n")

	require.NoError(t, n.Execute(ctx))
	rec, ok := ctx.Outputs["record"]
	require.True(t, ok)
	m, ok := rec.Raw.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "bob", m["name"])
	assert.Equal(t, "40", m["age"])
}

func TestCSVReaderNode_MissingData(t *testing.T) {
	n := stream.NewCSVReaderNode()
	ctx := nodetest.New("c1", "csv-reader")

	assert.Error(t, n.Execute(ctx))
}

func TestCSVReaderNode_HeaderOnlyCompletesWithNoRows(t *testing.T) {
	n := stream.NewCSVReaderNode()
	ctx := nodetest.New("c1", "csv-reader")
	ctx.Inputs["data"] = types.NewValue(types.VariableTypeString, "name,age\n")

	require.NoError(t, n.Execute(ctx))
	assert.Equal(t, 0, ctx.Connected["row"])
	assert.Equal(t, []string{"completed"}, ctx.Activated)
}
