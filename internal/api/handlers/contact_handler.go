package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/madatlas/madatlas-be/internal/models"
	"github.com/madatlas/madatlas-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	service services.ContactServiceProvider
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service services.ContactServiceProvider) *ContactHandler {
	return &ContactHandler{service: service}
}

// ContactPayload defines the structure for contact form submissions.
type ContactPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Category string `json:"category" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

// Submit stores a contact message. The operator notification is sent later by
// the background notifier, so a mail outage never fails this request.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var payload ContactPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondDetail(w, http.StatusBadRequest, validationDetail(err))
		return
	}

	msg, err := h.service.Submit(models.ContactMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Category: payload.Category,
		Subject:  payload.Subject,
		Message:  payload.Message,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to store contact message")
		respondDetail(w, http.StatusInternalServerError, "Failed to store contact message")
		return
	}

	log.Info().Int64("contact_id", msg.ID).Str("category", msg.Category).Msg("Contact message received")
	respondJSON(w, http.StatusOK, msg)
}
