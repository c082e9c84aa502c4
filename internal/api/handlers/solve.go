package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"tour-solver-service/internal/api/dto"
	"tour-solver-service/internal/domain"
)

// RequestHandler queues one raw request on the solve pipeline and returns
// the JSON reply.
type RequestHandler interface {
	Submit(ctx context.Context, payload []byte, transport string) []byte
}

// SolveHandler accepts the same payloads as the TCP and UDP transports.
type SolveHandler struct {
	Dispatcher   RequestHandler
	MaxBodyBytes int64
}

func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	defer r.Body.Close()
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "unreadable request body")
		return
	}

	body := h.Dispatcher.Submit(r.Context(), payload, "http")

	status := http.StatusOK
	var errResp dto.ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		status = statusForMessage(errResp.Error)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func statusForMessage(msg string) int {
	switch msg {
	case domain.ErrIntegrity.Error():
		return http.StatusUnprocessableEntity
	case domain.ErrRateLimited.Error():
		return http.StatusTooManyRequests
	case domain.ErrTimeout.Error():
		return http.StatusGatewayTimeout
	case "internal error":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
