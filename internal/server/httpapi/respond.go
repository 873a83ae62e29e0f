package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/go-playground/validator/v10"
)

// errorBody is the envelope every failed request answers with. The console
// reads message first and falls back to errors.
type errorBody struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, message string, details ...string) {
	writeJSON(w, status, errorBody{StatusCode: status, Message: message, Errors: details})
}

// statusFor maps service errors to HTTP statuses and client-safe messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Registro não encontrado"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "Registro já existe"
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorInvalidLoginPassword):
		return http.StatusUnauthorized, "Login ou senha inválidos"
	case errors.Is(err, common.ErrorInactiveUser):
		return http.StatusForbidden, "Usuário inativo"
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Sessão expirada"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Não autenticado"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "Acesso negado"
	default:
		return http.StatusInternalServerError, "Erro interno do servidor"
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", fe.Field())
	case "email":
		return fmt.Sprintf("%s deve ser um e-mail válido", fe.Field())
	case "min":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("%s deve ser no mínimo %s", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s deve ter no mínimo %s caracteres", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s é inválido (%s)", fe.Field(), fe.Tag())
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// decode reads a JSON body into dst and validates it. On failure the error
// response has already been written and decode returns false.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Corpo da requisição vazio")
		} else {
			writeError(w, http.StatusBadRequest, "JSON inválido", err.Error())
		}
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			details := make([]string, 0, len(ves))
			for _, fe := range ves {
				details = append(details, describe(fe))
			}
			writeError(w, http.StatusBadRequest, "", details...)
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// fail logs unexpected errors and writes the mapped response.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, msg)
}
