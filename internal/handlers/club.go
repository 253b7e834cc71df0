package handlers

import (
	"net/http"

	"github.com/clubhub/clubhub/gate"
	"github.com/clubhub/clubhub/httpx"
	"github.com/clubhub/clubhub/internal/media"
	"github.com/clubhub/clubhub/internal/models"
	"github.com/clubhub/clubhub/internal/payload"
	"github.com/clubhub/clubhub/internal/policy"
	"github.com/clubhub/clubhub/internal/services"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// ClubHandler serves the club directory, provisioning and profile editing.
type ClubHandler struct {
	db    *gorm.DB
	svc   *services.ClubService
	gate  *policy.AuthGate
	store media.Store
}

func NewClubHandler(db *gorm.DB, svc *services.ClubService, g *policy.AuthGate, store media.Store) *ClubHandler {
	return &ClubHandler{db: db, svc: svc, gate: g, store: store}
}

// List is the public directory.
func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	clubs := []models.Club{}
	if err := h.db.WithContext(r.Context()).Order("name").Find(&clubs).Error; err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, clubs)
}

func (h *ClubHandler) Get(w http.ResponseWriter, r *http.Request) {
	club, err := loadClub(r.Context(), h.db, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, club)
}

// ListWithAdmins is the management listing.
func (h *ClubHandler) ListWithAdmins(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListWithAdmins(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// Register provisions a club and its admin account.
func (h *ClubHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterClubRequest
	if err := payload.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	out, err := h.svc.Provision(r.Context(), services.ProvisionInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

// Delete removes a club with everything that belongs to it.
func (h *ClubHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, "Club and admin account deleted")
}

// ownClub authorizes the caller against its own club and loads it.
func (h *ClubHandler) ownClub(r *http.Request) (*models.Club, error) {
	id, err := caller(r)
	if err != nil {
		return nil, err
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionUpdate, policy.ResourceClub, &models.Club{ID: id.ClubID}); err != nil {
		return nil, err
	}
	return loadClub(r.Context(), h.db, id.ClubID)
}

func (h *ClubHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	club, err := h.ownClub(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var req payload.UpdateProfileRequest
	if err := payload.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	req.Apply(club)
	if err := h.db.WithContext(r.Context()).Save(club).Error; err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, club)
}

func (h *ClubHandler) UpdateLogo(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "logo_url", func(c *models.Club, url string) { c.LogoURL = url }, media.LogoSize, media.LogoSize)
}

func (h *ClubHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "banner_url", func(c *models.Club, url string) { c.BannerURL = url }, media.BannerWidth, media.BannerHeight)
}

func (h *ClubHandler) updateImage(w http.ResponseWriter, r *http.Request, column string, set func(*models.Club, string), maxW, maxH uint) {
	club, err := h.ownClub(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := parseMultipart(r); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	up, err := readUpload(r, "webp")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if media.DetectKind(up.ContentType, "") != media.KindImage {
		httpx.WriteError(w, r, httpx.Invalid("Image file required", nil))
		return
	}
	up, err = media.Normalize(up, maxW, maxH)
	if err != nil {
		httpx.WriteError(w, r, httpx.Invalid("Unsupported image", err.Error()))
		return
	}
	stored, err := storeUpload(r.Context(), h.store, up)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.db.WithContext(r.Context()).Model(club).Update(column, stored.URL).Error; err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	set(club, stored.URL)
	httpx.JSON(w, http.StatusOK, club)
}
