package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/poiesic/quire/core"
)

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation. Messages live inside
// their session record rather than as rows of their own.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is a conversation held inside a notebook.
type ChatSession struct {
	Object

	Name       string         `json:"name,omitempty"`
	NotebookID string         `json:"notebook"`
	ModelName  string         `json:"model_name,omitempty"`
	Messages   []ChatMessage  `json:"messages,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func (s *ChatSession) Table() string { return TableChatSession }

// AddMessage appends a message to the session and returns it. The
// session is not persisted; call Save afterwards.
func (s *ChatSession) AddMessage(role, content string) ChatMessage {
	msg := ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	s.Messages = append(s.Messages, msg)
	return msg
}

// Notebook resolves the notebook this session belongs to.
func (s *ChatSession) Notebook(ctx context.Context, c *Catalog) (*Notebook, error) {
	if s.NotebookID == "" {
		return nil, fmt.Errorf("%w: chat session has no notebook", core.ErrInvalidInput)
	}
	return Get[Notebook](ctx, c, s.NotebookID)
}

// ContextNotes returns up to limit of the notebook's most recent
// notes, for building the conversation context.
func (s *ChatSession) ContextNotes(ctx context.Context, c *Catalog, limit int) ([]*Note, error) {
	if s.NotebookID == "" {
		return nil, fmt.Errorf("%w: chat session has no notebook", core.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := c.store.Query(ctx,
		"SELECT * FROM note WHERE notebook = type::record($id) ORDER BY created DESC LIMIT $limit",
		map[string]any{"id": s.NotebookID, "limit": limit})
	if err != nil {
		return nil, err
	}

	out := make([]*Note, 0, len(rows))
	for _, row := range rows {
		var note Note
		if err := decodeRow(row, &note); err != nil {
			c.logger.Warn("skipping undecodable note", "id", row["id"], "error", err)
			continue
		}
		out = append(out, &note)
	}
	return out, nil
}
