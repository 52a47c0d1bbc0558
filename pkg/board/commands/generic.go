package commands

import (
	"encoding/json"
	"fmt"

	"flowboard/pkg/board"
)

// GenericCommand is the serializable envelope for any concrete command,
// discriminated by CommandType the way a journal entry or an undo-history
// snapshot needs to name its payload's shape. Exactly one of the typed
// fields is populated, matching CommandType.
type GenericCommand struct {
	CommandType string `json:"commandType"`

	AddNode        *AddNodeCommand        `json:"addNode,omitempty"`
	RemoveNode     *RemoveNodeCommand     `json:"removeNode,omitempty"`
	UpdateNode     *UpdateNodeCommand     `json:"updateNode,omitempty"`
	MoveNode       *MoveNodeCommand       `json:"moveNode,omitempty"`
	MoveLayer      *MoveLayerCommand      `json:"moveLayer,omitempty"`
	CopyPaste      *CopyPasteCommand      `json:"copyPaste,omitempty"`
	ConnectPin     *ConnectPinCommand     `json:"connectPin,omitempty"`
	DisconnectPin  *DisconnectPinCommand  `json:"disconnectPin,omitempty"`
	UpsertPin      *UpsertPinCommand      `json:"upsertPin,omitempty"`
	UpsertComment  *UpsertCommentCommand  `json:"upsertComment,omitempty"`
	RemoveComment  *RemoveCommentCommand  `json:"removeComment,omitempty"`
	UpsertVariable *UpsertVariableCommand `json:"upsertVariable,omitempty"`
	RemoveVariable *RemoveVariableCommand `json:"removeVariable,omitempty"`
	UpsertLayer    *UpsertLayerCommand    `json:"upsertLayer,omitempty"`
	RemoveLayer    *RemoveLayerCommand    `json:"removeLayer,omitempty"`
}

// command types, used both as the CommandType discriminator and as the map
// key a journal replayer switches on.
const (
	TypeAddNode        = "add_node"
	TypeRemoveNode      = "remove_node"
	TypeUpdateNode      = "update_node"
	TypeMoveNode        = "move_node"
	TypeMoveLayer       = "move_layer"
	TypeCopyPaste       = "copy_paste"
	TypeConnectPin      = "connect_pin"
	TypeDisconnectPin   = "disconnect_pin"
	TypeUpsertPin       = "upsert_pin"
	TypeUpsertComment   = "upsert_comment"
	TypeRemoveComment   = "remove_comment"
	TypeUpsertVariable  = "upsert_variable"
	TypeRemoveVariable  = "remove_variable"
	TypeUpsertLayer     = "upsert_layer"
	TypeRemoveLayer     = "remove_layer"
)

// Unwrap returns the single concrete board.Command this envelope carries.
func (g *GenericCommand) Unwrap() (board.Command, error) {
	switch g.CommandType {
	case TypeAddNode:
		return g.AddNode, nil
	case TypeRemoveNode:
		return g.RemoveNode, nil
	case TypeUpdateNode:
		return g.UpdateNode, nil
	case TypeMoveNode:
		return g.MoveNode, nil
	case TypeMoveLayer:
		return g.MoveLayer, nil
	case TypeCopyPaste:
		return g.CopyPaste, nil
	case TypeConnectPin:
		return g.ConnectPin, nil
	case TypeDisconnectPin:
		return g.DisconnectPin, nil
	case TypeUpsertPin:
		return g.UpsertPin, nil
	case TypeUpsertComment:
		return g.UpsertComment, nil
	case TypeRemoveComment:
		return g.RemoveComment, nil
	case TypeUpsertVariable:
		return g.UpsertVariable, nil
	case TypeRemoveVariable:
		return g.RemoveVariable, nil
	case TypeUpsertLayer:
		return g.UpsertLayer, nil
	case TypeRemoveLayer:
		return g.RemoveLayer, nil
	default:
		return nil, fmt.Errorf("unknown command type %q", g.CommandType)
	}
}

// DecodeJournal parses a sequence of GenericCommand envelopes (a command
// journal, as might be persisted by a host) and returns them as board.Command
// values ready to replay via Board.ExecuteCommand.
func DecodeJournal(data []byte) ([]board.Command, error) {
	var envelopes []GenericCommand
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, fmt.Errorf("decode command journal: %w", err)
	}
	cmds := make([]board.Command, 0, len(envelopes))
	for i := range envelopes {
		cmd, err := envelopes[i].Unwrap()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}
