package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/firstrankcoders/credential-service/internal/http/response"
	"github.com/firstrankcoders/credential-service/internal/observability"
	"github.com/firstrankcoders/credential-service/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type emailRequest struct {
	Email string `json:"email"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type resetPasswordConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() { observeAuthRequest(r, "signup", status, start) }()

	var in service.SignupInput
	if err := decodeJSON(r, &in); err != nil {
		status = "failure"
		writeBadBody(w, r, err)
		return
	}
	res, err := h.authSvc.Signup(r.Context(), in)
	if err != nil {
		status = "failure"
		auditAuth(r, "auth.signup", "", "create", err)
		if !writeCommonError(w, r, err) {
			writeInternal(w, r, err)
		}
		return
	}
	auditAuth(r, "auth.signup", res.UserID, "create", nil)
	response.JSON(w, r, http.StatusCreated, "User registered successfully", res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() { observeAuthRequest(r, "login", status, start) }()

	var in service.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		status = "failure"
		writeBadBody(w, r, err)
		return
	}
	res, err := h.authSvc.Login(r.Context(), in)
	if err != nil {
		status = "failure"
		auditAuth(r, "auth.login", "", "login", err)
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(w, r, http.StatusUnauthorized, "Invalid credentials", nil)
		case writeCommonError(w, r, err):
		default:
			writeInternal(w, r, err)
		}
		return
	}
	auditAuth(r, "auth.login", res.UserID, "login", nil)
	response.JSON(w, r, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() { observeAuthRequest(r, "reset_password", status, start) }()

	var in emailRequest
	if err := decodeJSON(r, &in); err != nil {
		status = "failure"
		writeBadBody(w, r, err)
		return
	}
	if err := h.authSvc.RequestPasswordReset(r.Context(), in.Email); err != nil {
		status = "failure"
		auditAuth(r, "auth.password_reset.request", "", "request_reset", err)
		if !writeCommonError(w, r, err) {
			writeInternal(w, r, err)
		}
		return
	}
	auditAuth(r, "auth.password_reset.request", "", "request_reset", nil)
	response.JSON(w, r, http.StatusOK, "If the email exists, a password reset link has been sent", nil)
}

func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() { observeAuthRequest(r, "reset_password_confirm", status, start) }()

	var in resetPasswordConfirmRequest
	if err := decodeJSON(r, &in); err != nil {
		status = "failure"
		writeBadBody(w, r, err)
		return
	}
	if err := h.authSvc.ConfirmPasswordReset(r.Context(), in.Token, in.NewPassword); err != nil {
		status = "failure"
		auditAuth(r, "auth.password_reset.confirm", "", "reset_password", err)
		switch {
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrRecordNotFound):
			response.Error(w, r, http.StatusBadRequest, "Invalid or expired token", nil)
		case writeCommonError(w, r, err):
		default:
			writeInternal(w, r, err)
		}
		return
	}
	auditAuth(r, "auth.password_reset.confirm", "", "reset_password", nil)
	response.JSON(w, r, http.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() { observeAuthRequest(r, "change_password", status, start) }()

	var in service.ChangePasswordInput
	if err := decodeJSON(r, &in); err != nil {
		status = "failure"
		writeBadBody(w, r, err)
		return
	}
	if err := h.authSvc.ChangePassword(r.Context(), in); err != nil {
		status = "failure"
		auditAuth(r, "auth.password.change", in.UserID, "change_password", err)
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			response.Error(w, r, http.StatusBadRequest, "User not found", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(w, r, http.StatusBadRequest, "Old password is incorrect", nil)
		case writeCommonError(w, r, err):
		default:
			writeInternal(w, r, err)
		}
		return
	}
	auditAuth(r, "auth.password.change", in.UserID, "change_password", nil)
	response.JSON(w, r, http.StatusOK, "Password updated successfully", nil)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() { observeAuthRequest(r, "verify_email", status, start) }()

	var in tokenRequest
	if err := decodeJSON(r, &in); err != nil {
		status = "failure"
		writeBadBody(w, r, err)
		return
	}
	if err := h.authSvc.VerifyEmail(r.Context(), in.Token); err != nil {
		status = "failure"
		auditAuth(r, "auth.email.verify", "", "verify_email", err)
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			response.Error(w, r, http.StatusBadRequest, "Invalid or expired token", nil)
		case errors.Is(err, service.ErrRecordNotFound):
			response.Error(w, r, http.StatusBadRequest, "User not found", nil)
		case writeCommonError(w, r, err):
		default:
			writeInternal(w, r, err)
		}
		return
	}
	auditAuth(r, "auth.email.verify", "", "verify_email", nil)
	response.JSON(w, r, http.StatusOK, "Email verified successfully", nil)
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() { observeAuthRequest(r, "refresh_token", status, start) }()

	var in refreshTokenRequest
	if err := decodeJSON(r, &in); err != nil {
		status = "failure"
		writeBadBody(w, r, err)
		return
	}
	res, err := h.authSvc.AuthenticateWithRefreshToken(r.Context(), in.RefreshToken)
	if err != nil {
		status = "failure"
		auditAuth(r, "auth.token.refresh", "", "refresh", err)
		switch {
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrRecordNotFound):
			response.Error(w, r, http.StatusUnauthorized, "Invalid or expired refresh token", nil)
		case writeCommonError(w, r, err):
		default:
			writeInternal(w, r, err)
		}
		return
	}
	auditAuth(r, "auth.token.refresh", res.UserID, "refresh", nil)
	response.JSON(w, r, http.StatusOK, "Token refreshed successfully", res)
}

func observeAuthRequest(r *http.Request, endpoint, status string, start time.Time) {
	observability.RecordAuthRequest(r.Context(), endpoint, status)
	observability.RecordAuthRequestDuration(r.Context(), endpoint, status, time.Since(start))
}

func auditAuth(r *http.Request, event, actorID, action string, err error) {
	in := observability.AuditInput{
		EventName:   event,
		ActorUserID: actorID,
		TargetType:  "auth_record",
		TargetID:    actorID,
		Action:      action,
		Outcome:     "success",
	}
	if err != nil {
		in.Outcome = "failure"
		in.Reason = errorReason(err)
	}
	observability.EmitAudit(r, in)
}

func errorReason(err error) string {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, service.ErrDuplicateCredential):
		return "duplicate"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, service.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, service.ErrRecordNotFound):
		return "not_found"
	case errors.Is(err, service.ErrStoreFailure):
		return "store_failure"
	default:
		return "internal"
	}
}
