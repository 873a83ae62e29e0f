package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/go-chi/chi/v5"
)

func (h *handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	list, err := h.permissions.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getPermission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.permissions.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) createPermission(w http.ResponseWriter, r *http.Request) {
	var in models.PermissionInput
	if !h.decode(w, r, &in) {
		return
	}
	p, err := h.permissions.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *handler) updatePermission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.PermissionInput
	if !h.decode(w, r, &in) {
		return
	}
	p, err := h.permissions.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) deletePermission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.permissions.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) searchPermissions(w http.ResponseWriter, r *http.Request) {
	list, err := h.permissions.SearchByName(r.Context(), strings.TrimSpace(r.URL.Query().Get("nome")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) permissionExists(w http.ResponseWriter, r *http.Request) {
	ok, err := h.permissions.Exists(r.Context(), chi.URLParam(r, "nome"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"existe": ok})
}
