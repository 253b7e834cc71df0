package handlers

import (
	"errors"
	"net/http"

	"github.com/clubhub/clubhub/gate"
	"github.com/clubhub/clubhub/httpx"
	"github.com/clubhub/clubhub/internal/botcheck"
	"github.com/clubhub/clubhub/internal/models"
	"github.com/clubhub/clubhub/internal/payload"
	"github.com/clubhub/clubhub/internal/policy"
	"github.com/clubhub/clubhub/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

var errAlreadyApplied = httpx.Invalid("You have already applied to this club.", nil)

type ApplicationHandler struct {
	db       *gorm.DB
	gate     *policy.AuthGate
	verifier botcheck.Verifier
	ips      *ratelimit.IPResolver
}

func NewApplicationHandler(db *gorm.DB, g *policy.AuthGate, verifier botcheck.Verifier, ips *ratelimit.IPResolver) *ApplicationHandler {
	return &ApplicationHandler{db: db, gate: g, verifier: verifier, ips: ips}
}

// Apply records a membership request. It needs a passing bot check and
// accepts one application per club and email.
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req payload.ApplyRequest
	if err := payload.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	ok, err := h.verifier.Verify(r.Context(), req.CaptchaToken, h.ips.ClientIP(r))
	if err != nil {
		httpx.WriteError(w, r, httpx.Upstream("captcha verification unavailable", err))
		return
	}
	if !ok {
		httpx.WriteError(w, r, httpx.Invalid("Captcha verification failed", nil))
		return
	}

	if _, err := loadClub(r.Context(), h.db, req.ClubID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var n int64
	err = h.db.WithContext(r.Context()).Model(&models.Application{}).
		Where("club_id = ? AND student_email = ?", req.ClubID, req.StudentEmail).
		Count(&n).Error
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if n > 0 {
		httpx.WriteError(w, r, errAlreadyApplied)
		return
	}

	app := models.Application{
		ClubID:       req.ClubID,
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		RollNumber:   req.RollNumber,
		Reason:       req.Reason,
	}
	if err := h.db.WithContext(r.Context()).Create(&app).Error; err != nil {
		// Lost a race with a concurrent submission.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = errAlreadyApplied
		}
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Message{Msg: "Application submitted successfully!"})
}

// Mine lists the applications to the caller's club, newest first.
func (h *ApplicationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	apps := []models.Application{}
	if id.ClubID != "" {
		err = h.db.WithContext(r.Context()).
			Where("club_id = ?", id.ClubID).
			Order("created_at desc").
			Find(&apps).Error
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, apps)
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var app models.Application
	if err := first(r.Context(), h.db, &app, chi.URLParam(r, "id"), "Application not found"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionUpdate, policy.ResourceApplication, &app); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var req payload.UpdateStatusRequest
	if err := payload.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.db.WithContext(r.Context()).Model(&app).Update("status", req.Status).Error; err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	app.Status = req.Status
	httpx.JSON(w, http.StatusOK, app)
}
