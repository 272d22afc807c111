package app

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JaimeStill/gallery/internal/auth"
	"github.com/JaimeStill/gallery/internal/media"
	"github.com/JaimeStill/gallery/internal/prompts"
)

const imageField = "image_file"

type loginPage struct {
	Username string
	Error    string
	Flash    *Flash
}

type adminPage struct {
	listing
	Form  prompts.Command
	Error string
}

type editPage struct {
	ID    string
	Form  prompts.Command
	Error string
	Flash *Flash
}

func (a *app) admin(w http.ResponseWriter, r *http.Request) {
	flash := a.takeFlash(w, r)

	if !a.authenticated(r) {
		a.render(w, http.StatusOK, "login", loginPage{Flash: flash})
		return
	}

	l, err := a.browse(r)
	if err != nil {
		a.fail(w, err)
		return
	}
	l.Flash = flash
	a.render(w, http.StatusOK, "admin", adminPage{listing: l})
}

func (a *app) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.render(w, http.StatusBadRequest, "login", loginPage{Error: "Invalid form submission."})
		return
	}

	username := r.PostFormValue("username")
	token, err := a.deps.Auth.Login(username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			a.logger.Warn("admin login rejected", "username", username)
			a.render(w, http.StatusUnauthorized, "login", loginPage{
				Username: username,
				Error:    auth.ErrInvalidCredentials.Error(),
			})
			return
		}
		a.fail(w, err)
		return
	}

	a.startSession(w, token)
	a.setFlash(w, "success", "Signed in.")
	a.redirect(w, r, "/admin")
}

func (a *app) logout(w http.ResponseWriter, r *http.Request) {
	a.endSession(w)
	a.setFlash(w, "success", "Signed out.")
	a.redirect(w, r, "/admin")
}

func (a *app) create(w http.ResponseWriter, r *http.Request) {
	cmd, err := a.readForm(w, r)
	if err == nil {
		_, err = a.deps.Prompts.Create(r.Context(), cmd)
	}

	if err != nil {
		if !userError(err) {
			a.fail(w, err)
			return
		}
		l, lerr := a.browse(r)
		if lerr != nil {
			a.fail(w, lerr)
			return
		}
		a.render(w, http.StatusBadRequest, "admin", adminPage{listing: l, Form: cmd, Error: err.Error()})
		return
	}

	a.setFlash(w, "success", "Prompt created.")
	a.redirect(w, r, "/admin")
}

func (a *app) edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := a.deps.Prompts.Find(r.Context(), id)
	if err != nil {
		a.missing(w, r, err)
		return
	}

	a.render(w, http.StatusOK, "edit", editPage{
		ID: p.ID,
		Form: prompts.Command{
			Title:       p.Title,
			Image:       p.Image,
			Description: p.Description,
			Prompt:      p.Prompt,
		},
	})
}

func (a *app) update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	cmd, err := a.readForm(w, r)
	if err == nil {
		_, err = a.deps.Prompts.Update(r.Context(), id, cmd)
	}

	if err != nil {
		if errors.Is(err, prompts.ErrNotFound) {
			a.missing(w, r, err)
			return
		}
		if !userError(err) {
			a.fail(w, err)
			return
		}
		a.render(w, http.StatusBadRequest, "edit", editPage{ID: id, Form: cmd, Error: err.Error()})
		return
	}

	a.setFlash(w, "success", "Prompt updated.")
	a.redirect(w, r, "/admin")
}

func (a *app) confirmDelete(w http.ResponseWriter, r *http.Request) {
	p, err := a.deps.Prompts.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		a.missing(w, r, err)
		return
	}
	a.render(w, http.StatusOK, "delete", detailPage{Prompt: p})
}

func (a *app) delete(w http.ResponseWriter, r *http.Request) {
	if err := a.deps.Prompts.Delete(r.Context(), r.PathValue("id")); err != nil {
		a.missing(w, r, err)
		return
	}
	a.setFlash(w, "success", "Prompt deleted.")
	a.redirect(w, r, "/admin")
}

// missing redirects back to the admin list when the record is gone.
func (a *app) missing(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, prompts.ErrNotFound) {
		a.setFlash(w, "error", "That prompt no longer exists.")
		a.redirect(w, r, "/admin")
		return
	}
	a.fail(w, err)
}

// readForm parses the create or edit form. An attached image file is relayed
// to the media host and its URL replaces the image field.
func (a *app) readForm(w http.ResponseWriter, r *http.Request) (prompts.Command, error) {
	r.Body = http.MaxBytesReader(w, r.Body, a.deps.MaxSize+(1<<20))

	if err := r.ParseMultipartForm(a.deps.MaxSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return prompts.Command{}, media.ErrTooLarge
		}
		return prompts.Command{}, fmt.Errorf("%w: invalid form", prompts.ErrValidation)
	}

	cmd := prompts.Command{
		Title:       r.FormValue("title"),
		Image:       strings.TrimSpace(r.FormValue("image")),
		Description: r.FormValue("description"),
		Prompt:      r.FormValue("prompt"),
	}

	file, header, err := r.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return cmd, nil
		}
		return cmd, fmt.Errorf("read image: %w", err)
	}
	defer file.Close()

	if header.Size == 0 {
		return cmd, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return cmd, fmt.Errorf("read image: %w", err)
	}

	result, err := a.deps.Media.Upload(r.Context(), media.File{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		return cmd, err
	}

	cmd.Image = result.URL
	return cmd, nil
}

// userError reports whether err should be shown back on the form.
func userError(err error) bool {
	return errors.Is(err, prompts.ErrValidation) ||
		errors.Is(err, media.ErrInvalidType) ||
		errors.Is(err, media.ErrTooLarge)
}
