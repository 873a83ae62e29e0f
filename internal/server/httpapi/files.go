package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// FileField is the multipart field carrying an upload.
const FileField = "arquivo"

const tooLarge = "Arquivo excede o tamanho máximo permitido"

func (h *handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	f, hdr, err := r.FormFile(FileField)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Campo %q ausente", FileField))
		return
	}
	defer f.Close()

	owner := currentUser(r.Context())
	var ownerID int64
	if owner != nil {
		ownerID = owner.ID
	}

	stored, err := h.files.Upload(r.Context(), ownerID, hdr.Filename, hdr.Header.Get("Content-Type"), f, hdr.Size)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *handler) downloadFile(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil || key == "" {
		writeError(w, http.StatusBadRequest, "Chave inválida")
		return
	}

	body, meta, err := h.files.Download(r.Context(), key)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": meta.Name}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.log.Warn(r.Context(), "download interrupted", "key", key, "error", err)
	}
}
