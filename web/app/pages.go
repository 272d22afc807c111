package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JaimeStill/gallery/internal/prompts"
	"github.com/JaimeStill/gallery/pkg/pagination"
)

type listing struct {
	Query string
	Page  pagination.PageResult[prompts.Prompt]
	Flash *Flash
}

type detailPage struct {
	Prompt *prompts.Prompt
	Flash  *Flash
}

// browse loads every record and pages through the ones matching the request's q parameter.
func (a *app) browse(r *http.Request) (listing, error) {
	query := r.URL.Query().Get("q")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	all, err := a.deps.Prompts.All(r.Context())
	if err != nil {
		return listing{}, err
	}

	return listing{
		Query: query,
		Page:  prompts.Browse(all, query, page, a.deps.PageSize),
	}, nil
}

func (a *app) home(w http.ResponseWriter, r *http.Request) {
	l, err := a.browse(r)
	if err != nil {
		a.fail(w, err)
		return
	}
	l.Flash = a.takeFlash(w, r)
	a.render(w, http.StatusOK, "home", l)
}

func (a *app) detail(w http.ResponseWriter, r *http.Request) {
	p, err := a.deps.Prompts.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, prompts.ErrNotFound) {
			a.render(w, http.StatusNotFound, "notfound", nil)
			return
		}
		a.fail(w, err)
		return
	}
	a.render(w, http.StatusOK, "detail", detailPage{Prompt: p})
}
