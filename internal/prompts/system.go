package prompts

import (
	"context"

	"github.com/JaimeStill/gallery/pkg/pagination"
)

// System defines the public contract for prompt record storage.
// Every backend validates commands before touching storage.
type System interface {
	Handler() *Handler

	// All returns every record, newest first.
	All(ctx context.Context) ([]Prompt, error)

	// List returns one page of records matching page.Search against
	// title or description, newest first.
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Prompt], error)

	Find(ctx context.Context, id string) (*Prompt, error)
	Create(ctx context.Context, cmd Command) (*Prompt, error)

	// Update overwrites an existing record. It never creates one.
	Update(ctx context.Context, id string, cmd Command) (*Prompt, error)
	Delete(ctx context.Context, id string) error
}
