package conversation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"petoverse-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/pet/chat", chatHandler(svc))
}

type chatRequest struct {
	PetID   string `json:"pet_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func chatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		reply, err := svc.HandleTurn(r.Context(), claims.UserID, req.PetID, req.Message)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Siempre 200 con texto: los fallbacks (not found / unavailable)
		// ya vienen resueltos desde el service.
		writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// (pets/conversation/training) para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
