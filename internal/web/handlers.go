package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	env      *ops.Env
	renderer *Renderer
}

// HandleList handles GET /sessions: saved sessions, most recent first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.env.ListSessions(r.Context(), ops.ListSessionsInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData:   h.renderer.page("Sessions", "sessions"),
		Items:      result.Items,
		Pagination: result.Pagination,
	})
}

// HandleDetail handles GET /sessions/{name}: every image of a saved session, rendered.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		h.renderer.renderError(w, r, errors.NewInvalidParameter("session name is required"))
		return
	}

	view, err := h.env.ViewSession(r.Context(), ops.ViewSessionInput{Name: name})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, view)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: h.renderer.page(view.Name, "sessions"),
		Session:  view,
	})
}

// HandleDelete handles DELETE /sessions/{name}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		h.renderer.renderError(w, r, errors.NewInvalidParameter("session name is required"))
		return
	}

	result, err := h.env.DeleteSession(r.Context(), ops.DeleteSessionInput{Name: name})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/sessions")
		w.WriteHeader(http.StatusOK)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/sessions", http.StatusFound)
}

// HandleStudio handles GET /studio: the live studio, every image rendered.
func (h *Handlers) HandleStudio(w http.ResponseWriter, r *http.Request) {
	view, err := h.env.View()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "studio", StudioPageData{
		PageData: h.renderer.page("Studio", "studio"),
		Current:  view.Current,
		Images:   view.Images,
	})
}

// HandleHelp handles GET /help.
func (h *Handlers) HandleHelp(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "help", HelpPageData{
		PageData: h.renderer.page("Help", "help"),
		Body:     h.renderer.help,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// sessionURL returns the detail path for a session name.
func sessionURL(name string) string {
	return "/sessions/" + url.PathEscape(name)
}
