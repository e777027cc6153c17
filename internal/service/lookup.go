package service

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/boleto/internal/boleto"
)

// LookupHandler serves GET /api/v1/boletos/{code} for form pre-fill. The code
// may be a barcode or a codeline, with or without punctuation.
func (s *BoletoService) LookupHandler(w http.ResponseWriter, r *http.Request) {
	// chi matches on the escaped path when the request carries one
	code, err := url.PathUnescape(chi.URLParam(r, "code"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid_escape",
			"message": err.Error(),
		})
		return
	}

	res, err := s.decode(r.Context(), code)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   boleto.KindOf(err).String(),
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, ResultView(res))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
