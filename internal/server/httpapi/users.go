package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
)

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	if !h.decode(w, r, &in) {
		return
	}
	u, err := h.users.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.UserInput
	if !h.decode(w, r, &in) {
		return
	}
	u, err := h.users.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if me := currentUser(r.Context()); me != nil && me.ID == id {
		writeError(w, http.StatusBadRequest, "Não é possível excluir o próprio usuário")
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) searchUsers(w http.ResponseWriter, r *http.Request) {
	var req pagination.PageRequest[models.UserFilter]
	if !h.decode(w, r, &req) {
		return
	}
	page, err := h.users.Search(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handler) setUserStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.StatusChange
	if !h.decode(w, r, &in) {
		return
	}
	u, err := h.users.SetStatus(r.Context(), id, in.Active)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// changePassword is open to the account owner and to user administrators.
func (h *handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !selfOr(r, id, common.PermCreateUser) {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	var in models.PasswordChange
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.users.ChangePassword(r.Context(), id, in); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// userPermissions returns the user with profiles and permissions expanded.
func (h *handler) userPermissions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !selfOr(r, id, common.PermListUsers, common.PermCreateUser) {
		writeError(w, http.StatusForbidden, "Acesso negado")
		return
	}
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func selfOr(r *http.Request, id int64, perms ...string) bool {
	me := currentUser(r.Context())
	if me == nil {
		return false
	}
	return me.ID == id || me.HasAnyPermission(perms...)
}
