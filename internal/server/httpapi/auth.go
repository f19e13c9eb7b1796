package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/portfolio/internal/server/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	res, err := a.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Login successful", res)
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}
	acc, err := a.Auth.Register(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	created(w, "User registered successfully", acc)
}

func (a *API) profile(w http.ResponseWriter, r *http.Request) {
	acc, err := a.Auth.Profile(r.Context(), accountFrom(r.Context()).ID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	ok(w, acc)
}

func (a *API) updateEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	acc, err := a.Auth.ChangeEmail(r.Context(), accountFrom(r.Context()).ID, req.Email)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Email updated successfully", map[string]string{"email": acc.Email})
}

func (a *API) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	err := a.Auth.ChangePassword(r.Context(), accountFrom(r.Context()).ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Password updated successfully", nil)
}

// logout only acknowledges; tokens are stateless and expire on their own.
func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	message(w, "Logout successful", nil)
}
