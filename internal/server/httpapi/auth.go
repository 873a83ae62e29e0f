package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/models"
)

func (h *handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !h.decode(w, r, &req) {
		h.metrics.SignIns.WithLabelValues("bad_request").Inc()
		return
	}

	resp, err := h.auth.SignIn(r.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorInvalidLoginPassword):
			h.metrics.SignIns.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, common.ErrorInactiveUser):
			h.metrics.SignIns.WithLabelValues("inactive").Inc()
		default:
			h.metrics.SignIns.WithLabelValues("error").Inc()
		}
		h.fail(w, r, err)
		return
	}

	h.metrics.SignIns.WithLabelValues("success").Inc()
	h.log.Info(r.Context(), "signed in", "user_id", resp.User.ID, "ip", clientIP(r))
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r.Context()))
}
