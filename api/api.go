package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aleph-zero/mineescape/service/escape"
	"github.com/aleph-zero/mineescape/service/identity"
	"github.com/aleph-zero/mineescape/service/runstore"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type contextKey string

const runKey contextKey = "run"

/* *** Identity API *** */

type IdentityHandler struct {
	service identity.Service
}

func NewIdentityHandler(svc identity.Service) IdentityHandler {
	return IdentityHandler{service: svc}
}

func (h *IdentityHandler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, &IdentityResponse{h.service.Identify()})
}

type IdentityResponse struct {
	identity.Model
}

func (i *IdentityResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

/* *** Escape API *** */

type EscapeHandler struct {
	service escape.Service
}

func NewEscapeHandler(svc escape.Service) EscapeHandler {
	return EscapeHandler{service: svc}
}

func (h *EscapeHandler) Solve(w http.ResponseWriter, r *http.Request) {
	req, err := ReadMapRequest(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.Render(w, r, ErrRequestTooLarge(err))
			return
		}
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	run, err := h.service.Solve(r.Context(), req.Name, strings.NewReader(req.Map))
	if err != nil {
		if errors.Is(err, escape.Error{ErrorCode: escape.InvalidMap}) {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}
		render.Render(w, r, ErrInternalServerError(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.Render(w, r, &RunResponse{run})
}

/* *** Runs API *** */

type RunsHandler struct {
	service runstore.Service
}

func NewRunsHandler(svc runstore.Service) RunsHandler {
	return RunsHandler{service: svc}
}

func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	runs := h.service.GetRuns()
	list := make([]render.Renderer, 0, len(runs))
	for _, run := range runs {
		list = append(list, &RunResponse{run})
	}
	render.RenderList(w, r, list)
}

func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(runKey).(*runstore.Run)
	render.Render(w, r, &RunResponse{run})
}

// RunContext loads the run named by the {run} URL parameter into the request context.
func (h *RunsHandler) RunContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if id = chi.URLParam(r, "run"); id == "" {
			render.Render(w, r, ErrInvalidRequest(errors.New("missing run id")))
			return
		}

		run, err := h.service.GetRun(id)
		if err != nil {
			if errors.Is(err, runstore.Error{ErrorCode: runstore.NoSuchRun}) {
				render.Render(w, r, ErrNotFound(err))
				return
			}
			render.Render(w, r, ErrInternalServerError(err))
			return
		}

		ctx := context.WithValue(r.Context(), runKey, run)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type RunResponse struct {
	*runstore.Run
}

func (rr *RunResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

/* *** Errors *** */

type ErrResponse struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	StatusText     string `json:"status"`
	ErrorText      string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrRequestTooLarge(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusRequestEntityTooLarge,
		StatusText:     "Request too large.",
		ErrorText:      err.Error(),
	}
}

func ErrNotFound(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorText:      err.Error(),
	}
}

func ErrInternalServerError(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}
