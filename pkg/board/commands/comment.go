package commands

import (
	"fmt"

	"flowboard/pkg/board"
)

// UpsertCommentCommand adds or replaces a comment.
type UpsertCommentCommand struct {
	Comment *board.Comment `json:"comment"`

	existed  bool
	previous board.Comment
}

func (c *UpsertCommentCommand) Execute(b *board.Board) error {
	if prev, ok := b.Comments[c.Comment.ID]; ok {
		c.existed = true
		c.previous = *prev
	}
	b.Comments[c.Comment.ID] = c.Comment
	return nil
}

func (c *UpsertCommentCommand) Undo(b *board.Board) error {
	if c.existed {
		prev := c.previous
		b.Comments[c.Comment.ID] = &prev
		return nil
	}
	delete(b.Comments, c.Comment.ID)
	return nil
}

// RemoveCommentCommand deletes a comment.
type RemoveCommentCommand struct {
	CommentID string `json:"commentId"`

	removed *board.Comment
}

func (c *RemoveCommentCommand) Execute(b *board.Board) error {
	removed, ok := b.Comments[c.CommentID]
	if !ok {
		return fmt.Errorf("comment %s not found", c.CommentID)
	}
	c.removed = removed
	delete(b.Comments, c.CommentID)
	return nil
}

func (c *RemoveCommentCommand) Undo(b *board.Board) error {
	if c.removed == nil {
		return fmt.Errorf("nothing to restore")
	}
	b.Comments[c.removed.ID] = c.removed
	return nil
}
