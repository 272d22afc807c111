package prompts

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/JaimeStill/gallery/pkg/query"
	"github.com/JaimeStill/gallery/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("title", "Title").
	Project("image", "Image").
	Project("description", "Description").
	Project("prompt", "Prompt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const returning = "RETURNING id, title, image, description, prompt, created_at, updated_at"

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var (
		p       Prompt
		id      uuid.UUID
		updated sql.NullTime
	)

	err := s.Scan(
		&id,
		&p.Title,
		&p.Image,
		&p.Description,
		&p.Prompt,
		&p.CreatedAt,
		&updated,
	)
	if err != nil {
		return p, err
	}

	p.ID = id.String()
	if updated.Valid {
		t := updated.Time
		p.UpdatedAt = &t
	}
	return p, nil
}
