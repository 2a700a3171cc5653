package training

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"petoverse-backend/internal/domain/pets"
	"petoverse-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/pet/train", trainHandler(svc))
}

type trainRequest struct {
	PetID   string `json:"pet_id"`
	Command string `json:"command"`

	// Response se acepta por compatibilidad con el cliente pero no altera
	// el estado: no existe mapping comando->respuesta en el modelo.
	Response string `json:"response"`
}

type trainResponse struct {
	Message string `json:"message"`
}

func trainHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req trainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		err := svc.Train(r.Context(), claims.UserID, req.PetID, req.Command)
		if err != nil {
			switch {
			case errors.Is(err, pets.ErrNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput), errors.Is(err, pets.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, trainResponse{
			Message: "Pet trained successfully with new command.",
		})
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// (pets/conversation/training) para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
