package models

import (
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/daybook/internal/errors"
)

// Idea is an unscheduled thought that can later be promoted to a task.
type Idea struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (i *Idea) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return errors.Validation("validate idea", "title cannot be empty")
	}
	return nil
}

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	ProjectID string    `json:"project_id,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return errors.Validation("validate note", "title cannot be empty")
	}
	return nil
}

func (n Note) Clone() Note {
	n.Tags = slices.Clone(n.Tags)
	return n
}

func (i Idea) Clone() Idea {
	i.Tags = slices.Clone(i.Tags)
	return i
}
