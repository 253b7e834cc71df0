package handlers

import (
	"net/http"

	"github.com/clubhub/clubhub/gate"
	"github.com/clubhub/clubhub/httpx"
	"github.com/clubhub/clubhub/internal/media"
	"github.com/clubhub/clubhub/internal/models"
	"github.com/clubhub/clubhub/internal/payload"
	"github.com/clubhub/clubhub/internal/policy"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type PostHandler struct {
	db    *gorm.DB
	gate  *policy.AuthGate
	store media.Store
}

func NewPostHandler(db *gorm.DB, g *policy.AuthGate, store media.Store) *PostHandler {
	return &PostHandler{db: db, gate: g, store: store}
}

// Feed lists every post, newest first, with its club summary.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.db)
}

// ByClub lists the posts of one club, newest first.
func (h *PostHandler) ByClub(w http.ResponseWriter, r *http.Request) {
	club, err := loadClub(r.Context(), h.db, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	h.list(w, r, h.db.Where("club_id = ?", club.ID))
}

func (h *PostHandler) list(w http.ResponseWriter, r *http.Request, q *gorm.DB) {
	posts := []*models.Post{}
	if err := q.WithContext(r.Context()).Order("created_at desc").Find(&posts).Error; err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := models.AttachClubs(r.Context(), h.db, posts); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, posts)
}

// Create uploads the media file and publishes a post for the caller's club.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	post := &models.Post{ClubID: id.ClubID}
	if err := h.gate.Authorize(r.Context(), gate.ActionCreate, policy.ResourcePost, post); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := parseMultipart(r); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var form payload.CreatePostForm
	if err := payload.DecodeForm(r, &form); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	up, err := readUpload(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	stored, err := storeUpload(r.Context(), h.store, up)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	post.MediaURL = stored.URL
	post.MediaType = string(stored.Kind)
	post.Caption = form.Caption
	if err := h.db.WithContext(r.Context()).Create(post).Error; err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if err := first(r.Context(), h.db, &post, chi.URLParam(r, "id"), "Post not found"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionDelete, policy.ResourcePost, &post); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(&post).Error; err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, "Post removed")
}
