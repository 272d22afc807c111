package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/gallery/pkg/pagination"
	"github.com/JaimeStill/gallery/pkg/query"
	"github.com/JaimeStill/gallery/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a PostgreSQL-backed prompt store implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts", "store", "postgres"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) All(ctx context.Context) ([]Prompt, error) {
	q, args := query.NewBuilder(projection, defaultSort).Build()

	prompts, err := repository.QueryMany(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	return prompts, nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.SearchTerm(), "Title", "Description")

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	page.Page = min(page.Page, pagination.TotalPages(total, page.PageSize))

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	prompts, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}

	result := pagination.NewPageResult(prompts, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id string) (*Prompt, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	q, args := query.NewBuilder(projection).BuildSingle("ID", uid)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, r.mapError("find", err)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd Command) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO prompts(title, image, description, prompt)
		VALUES ($1, $2, $3, $4)
		` + returning

	args := []any{cmd.Title, cmd.Image, cmd.Description, cmd.Prompt}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPrompt)
	})

	if err != nil {
		return nil, r.mapError("create", err)
	}

	r.logger.Info("prompt created", "id", p.ID, "title", p.Title)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id string, cmd Command) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	q := `
		UPDATE prompts
		SET title = $1, image = $2, description = $3, prompt = $4, updated_at = now()
		WHERE id = $5
		` + returning

	args := []any{cmd.Title, cmd.Image, cmd.Description, cmd.Prompt, uid}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPrompt)
	})

	if err != nil {
		return nil, r.mapError("update", err)
	}

	r.logger.Info("prompt updated", "id", p.ID, "title", p.Title)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM prompts WHERE id = $1",
			uid,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return r.mapError("delete", err)
	}

	r.logger.Info("prompt deleted", "id", id)
	return nil
}

func (r *repo) mapError(op string, err error) error {
	mapped := repository.MapError(err, ErrNotFound, ErrValidation)
	if errors.Is(mapped, ErrNotFound) || errors.Is(mapped, ErrValidation) {
		return mapped
	}
	return fmt.Errorf("%s prompt: %w", op, err)
}
