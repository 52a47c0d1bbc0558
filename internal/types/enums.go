// Package types implements the typed value and pin model: the closed set
// of variable types and value shapes a pin can carry, and the Value/Pin
// machinery nodes use to read and write them.
package types

// VariableType is the closed set of scalar/structural kinds a pin or
// variable can carry. The numeric values match the wire enum a host-side
// persistence adapter would use, so they are pinned explicitly rather than
// left to iota ordering.
type VariableType int

const (
	VariableTypeExecution VariableType = 0
	VariableTypeString    VariableType = 1
	VariableTypeInteger   VariableType = 2
	VariableTypeFloat     VariableType = 3
	VariableTypeBoolean   VariableType = 4
	VariableTypeDate      VariableType = 5
	VariableTypePathBuf   VariableType = 6
	VariableTypeGeneric   VariableType = 7
	VariableTypeStruct    VariableType = 8
	VariableTypeByte      VariableType = 9
)

func (t VariableType) String() string {
	switch t {
	case VariableTypeExecution:
		return "Execution"
	case VariableTypeString:
		return "String"
	case VariableTypeInteger:
		return "Integer"
	case VariableTypeFloat:
		return "Float"
	case VariableTypeBoolean:
		return "Boolean"
	case VariableTypeDate:
		return "Date"
	case VariableTypePathBuf:
		return "PathBuf"
	case VariableTypeGeneric:
		return "Generic"
	case VariableTypeStruct:
		return "Struct"
	case VariableTypeByte:
		return "Byte"
	default:
		return "Unknown"
	}
}

// ValueShape is orthogonal to VariableType: a pin's full type is the pair
// (VariableType, ValueShape).
type ValueShape int

const (
	ValueShapeArray   ValueShape = 0
	ValueShapeNormal  ValueShape = 1
	ValueShapeHashMap ValueShape = 2
	ValueShapeHashSet ValueShape = 3
)

func (s ValueShape) String() string {
	switch s {
	case ValueShapeArray:
		return "Array"
	case ValueShapeNormal:
		return "Normal"
	case ValueShapeHashMap:
		return "HashMap"
	case ValueShapeHashSet:
		return "HashSet"
	default:
		return "Unknown"
	}
}

// PinDirection distinguishes input (pull) from output (push) pins.
type PinDirection int

const (
	PinDirectionInput  PinDirection = 0
	PinDirectionOutput PinDirection = 1
)

func (d PinDirection) String() string {
	if d == PinDirectionOutput {
		return "Output"
	}
	return "Input"
}

// ExecutionStage gates which features/boards a host exposes.
type ExecutionStage int

const (
	ExecutionStageDev     ExecutionStage = 0
	ExecutionStageInt     ExecutionStage = 1
	ExecutionStageQA      ExecutionStage = 2
	ExecutionStagePreProd ExecutionStage = 3
	ExecutionStageProd    ExecutionStage = 4
)

func (s ExecutionStage) String() string {
	switch s {
	case ExecutionStageDev:
		return "Dev"
	case ExecutionStageInt:
		return "Int"
	case ExecutionStageQA:
		return "QA"
	case ExecutionStagePreProd:
		return "PreProd"
	case ExecutionStageProd:
		return "Prod"
	default:
		return "Unknown"
	}
}

// LogLevel buckets trace messages and gates board verbosity.
type LogLevel int

const (
	LogLevelDebug LogLevel = 0
	LogLevelInfo  LogLevel = 1
	LogLevelWarn  LogLevel = 2
	LogLevelError LogLevel = 3
	LogLevelFatal LogLevel = 4
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "Debug"
	case LogLevelInfo:
		return "Info"
	case LogLevelWarn:
		return "Warn"
	case LogLevelError:
		return "Error"
	case LogLevelFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}
