// Package auth handles admin login, logout and user management.
package auth

import (
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/ValerioGc/shop-manager/internal/domain"
	"github.com/ValerioGc/shop-manager/internal/transport/web/logx"
	"github.com/ValerioGc/shop-manager/internal/transport/web/mw"
	v1 "github.com/ValerioGc/shop-manager/internal/transport/web/v1"
)

type Handler struct {
	Log       *log.Logger
	Users     domain.UsersRepo
	Hasher    domain.PasswordHasher
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login godoc
// @Summary      Authenticate admin user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "login, password"
// @Success      200 {object} domain.APIEnvelope{data=loginResponse}
// @Failure      401 {object} domain.APIEnvelope
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "auth.login"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req loginRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	if req.Login == "" || req.Password == "" {
		logx.Error(h.Log, reqID, op, "empty login or password", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Users.UserByLogin(r.Context(), req.Login)
	if err != nil {
		logx.Error(h.Log, reqID, op, "user not found", err, "login", req.Login)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	ok, err := h.Hasher.Verify(req.Password, u.PassHash)
	if err != nil || !ok {
		logx.Error(h.Log, reqID, op, "password verify failed", err, "login", req.Login)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	token, _, err := h.Tokens.Issue(r.Context(), u.ID, u.Login)
	if err != nil {
		logx.Error(h.Log, reqID, op, "issue token failed", err, "login", u.Login)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID, "login", u.Login)
	v1.WriteOKData(w, r, loginResponse{Token: token, User: u})
}

// Logout revokes the presented token until its natural expiry.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "auth.logout"
	reqID := mw.RequestIDFromCtx(r.Context())

	claims, err := mw.ClaimsFromRequest(mw.AuthDeps{Tokens: h.Tokens, Blacklist: h.Blacklist}, r)
	if err != nil {
		logx.Error(h.Log, reqID, op, "parse token", err)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	if err := h.Blacklist.Revoke(r.Context(), claims.JTI, claims.ExpiresAt); err != nil {
		logx.Error(h.Log, reqID, op, "revoke", err, "jti", claims.JTI)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "login", claims.Login)
	v1.WriteOKMessage(w, r, "logged out")
}

type registerRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Register creates an admin user. Only reachable behind auth.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "auth.register"
	reqID := mw.RequestIDFromCtx(r.Context())

	var req registerRequest
	if err := v1.DecodeJSON(r, &req); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	ve := domain.NewValidationError()
	if !domain.ValidLogin(req.Login) {
		ve.Add("login", "at least 4 alphanumeric characters")
	}
	if !domain.ValidPassword(req.Password) {
		ve.Add("password", "at least 8 characters")
	}
	if !ve.Empty() {
		logx.Error(h.Log, reqID, op, "validate", ve)
		v1.WriteDomainError(w, r, ve)
		return
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		logx.Error(h.Log, reqID, op, "hash", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	u, err := h.Users.CreateUser(r.Context(), req.Login, hash)
	if err != nil {
		logx.Error(h.Log, reqID, op, "create", err, "login", req.Login)
		v1.WriteDomainError(w, r, domain.ErrDuplicate)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID, "login", u.Login)
	v1.WriteCreated(w, r, u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	const op = "auth.users"
	reqID := mw.RequestIDFromCtx(r.Context())

	page, err := h.Users.UsersPage(r.Context(), v1.ListParamsFromQuery(r))
	if err != nil {
		logx.Error(h.Log, reqID, op, "page", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, page)
}

// DeleteUser refuses self-deletion.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	const op = "auth.delete_user"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	if me, ok := domain.UserFromCtx(r.Context()); ok && me.ID == id {
		logx.Error(h.Log, reqID, op, "self delete", domain.ErrForbidden, "user_id", id)
		v1.WriteDomainError(w, r, domain.ErrForbidden)
		return
	}

	if err := h.Users.DeleteUser(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "delete", err, "user_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", id)
	v1.WriteOKMessage(w, r, "user deleted")
}
