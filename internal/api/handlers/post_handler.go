package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/madatlas/madatlas-be/internal/models"
	"github.com/madatlas/madatlas-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PostHandler handles HTTP requests for content posts.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// PostPayload defines the structure for post creation requests.
type PostPayload struct {
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Type     string   `json:"type" validate:"required,oneof=news event blog"`
	Author   string   `json:"author" validate:"required"`
	Excerpt  string   `json:"excerpt"`
	Category string   `json:"category"`
	Date     string   `json:"date"`
	ReadTime string   `json:"readTime"`
	Image    string   `json:"image"`
	Featured bool     `json:"featured"`
	Tags     []string `json:"tags"`
}

// Create handles the request to create a new post.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondDetail(w, http.StatusBadRequest, validationDetail(err))
		return
	}

	post, err := h.service.Create(models.Post{
		Title:    payload.Title,
		Content:  payload.Content,
		Excerpt:  payload.Excerpt,
		Category: payload.Category,
		Author:   payload.Author,
		Date:     payload.Date,
		ReadTime: payload.ReadTime,
		Image:    payload.Image,
		Featured: payload.Featured,
		Tags:     payload.Tags,
		Type:     payload.Type,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidPostType) {
			respondDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("Failed to create post")
		respondDetail(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// List handles the request to list posts, optionally filtered by type.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.URL.Query().Get("type"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		respondDetail(w, http.StatusInternalServerError, "Failed to retrieve posts")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	respondJSON(w, http.StatusOK, posts)
}

// Get handles the request to get a single post by its ID.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	post, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "Post not found")
			return
		}
		log.Error().Err(err).Int64("post_id", id).Msg("Failed to get post")
		respondDetail(w, http.StatusInternalServerError, "Failed to retrieve post")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Update handles the request to partially update a post. Only the fields
// present in the request body change.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	var patch models.PostUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.service.Update(id, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondDetail(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, services.ErrInvalidPostType):
			respondDetail(w, http.StatusBadRequest, err.Error())
		default:
			log.Error().Err(err).Int64("post_id", id).Msg("Failed to update post")
			respondDetail(w, http.StatusInternalServerError, "Failed to update post")
		}
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Delete handles the request to delete a post.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	removed, err := h.service.Delete(id)
	if err != nil {
		log.Error().Err(err).Int64("post_id", id).Msg("Failed to delete post")
		respondDetail(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	if !removed {
		respondDetail(w, http.StatusNotFound, "Post not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid post id")
		return 0, false
	}
	return id, true
}
