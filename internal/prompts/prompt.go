// Package prompts implements the prompt gallery record domain.
// It provides the record types, the store backends (postgres, mongo, file),
// a read-through cache decorator, and the HTTP handlers for record CRUD.
package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prompt is a gallery entry: a titled image-generation prompt with an optional image and description.
type Prompt struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Image       string     `json:"image" bson:"image"`
	Description string     `json:"description" bson:"description"`
	Prompt      string     `json:"prompt" bson:"prompt"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Command carries the writable fields of a prompt for create and update.
// Image and Description default to empty strings when omitted.
type Command struct {
	Title       string `json:"title"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// Validate rejects commands whose title or prompt text is blank.
func (c Command) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(c.Prompt) == "" {
		return fmt.Errorf("%w: prompt is required", ErrValidation)
	}
	return nil
}

// newPrompt builds a record from cmd with a fresh ID and creation time.
func newPrompt(cmd Command, now time.Time) Prompt {
	return Prompt{
		ID:          uuid.NewString(),
		Title:       cmd.Title,
		Image:       cmd.Image,
		Description: cmd.Description,
		Prompt:      cmd.Prompt,
		CreatedAt:   now.UTC(),
	}
}

// apply overwrites the writable fields of p and stamps the update time.
func (p *Prompt) apply(cmd Command, now time.Time) {
	updated := now.UTC()
	p.Title = cmd.Title
	p.Image = cmd.Image
	p.Description = cmd.Description
	p.Prompt = cmd.Prompt
	p.UpdatedAt = &updated
}
