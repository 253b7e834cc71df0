package handlers

import (
	"net/http"

	"github.com/clubhub/clubhub/auth"
	"github.com/clubhub/clubhub/httpx"
	"github.com/clubhub/clubhub/internal/payload"
	"github.com/clubhub/clubhub/internal/services"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginUser struct {
	ID                 string    `json:"id"`
	Role               auth.Role `json:"role"`
	Email              string    `json:"email"`
	ClubID             string    `json:"clubId,omitempty"`
	ClubName           string    `json:"clubName"`
	MustChangePassword bool      `json:"mustChangePassword"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

// Login issues a credential for a matching email and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := payload.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token: res.Token,
		User: loginUser{
			ID:                 res.Account.ID,
			Role:               res.Account.Role,
			Email:              res.Account.Email,
			ClubID:             res.Account.ClubRef(),
			ClubName:           res.ClubName,
			MustChangePassword: res.Account.MustChangePassword,
		},
	})
}

// ChangeInitialPassword replaces the caller's password.
func (h *AuthHandler) ChangeInitialPassword(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var req payload.ChangePasswordRequest
	if err := payload.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.svc.ChangePassword(r.Context(), id.SubjectID, req.NewPassword); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, "Password updated successfully")
}
