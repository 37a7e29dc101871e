package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dreschagin/rai-dashboard/internal/application/usecase"
	"github.com/dreschagin/rai-dashboard/internal/domain/service"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/middleware"
)

const maxJSONBody = 64 * 1024

// statusFor переводит ошибку use case в HTTP статус
func statusFor(err error) int {
	switch {
	case errors.Is(err, valueobject.ErrUnknownSection):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidSampleCount),
		errors.Is(err, usecase.ErrTooManySamples):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeUseCaseError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "failed to derive dashboard data"
	}
	middleware.WriteError(w, status, message)
}

// decodeJSON читает тело запроса с ограничением размера. Пустое тело допустимо.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return false
	}
	middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
	return false
}
