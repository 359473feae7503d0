package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/firstrankcoders/credential-service/internal/http/middleware"
	"github.com/firstrankcoders/credential-service/internal/http/response"
	"github.com/firstrankcoders/credential-service/internal/observability"
	"github.com/firstrankcoders/credential-service/internal/service"
)

type UserHandler struct {
	userSvc service.UserServiceInterface
}

func NewUserHandler(userSvc service.UserServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	profile, err := h.userSvc.Me(r.Context(), claims.Subject)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, "User profile retrieved successfully", profile)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUserInput
	if err := decodeJSON(r, &in); err != nil {
		writeBadBody(w, r, err)
		return
	}
	profile, err := h.userSvc.Create(r.Context(), in)
	if err != nil {
		auditProfile(r, "user.create", in.AuthRecordID, "create", err)
		h.writeError(w, r, err)
		return
	}
	auditProfile(r, "user.create", profile.ID, "create", nil)
	response.JSON(w, r, http.StatusCreated, "User created successfully", profile)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, msgValidationFailed, []service.FieldError{{Field: "query", Message: err.Error()}})
		return
	}
	page, err := h.userSvc.List(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, "Users retrieved successfully", paginatedData(page))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.userSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, "User retrieved successfully", profile)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in service.UpdateUserInput
	if err := decodeJSON(r, &in); err != nil {
		writeBadBody(w, r, err)
		return
	}
	profile, err := h.userSvc.Update(r.Context(), id, in)
	if err != nil {
		auditProfile(r, "user.update", id, "update", err)
		h.writeError(w, r, err)
		return
	}
	auditProfile(r, "user.update", id, "update", nil)
	response.JSON(w, r, http.StatusOK, "User updated successfully", profile)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.userSvc.Delete(r.Context(), id); err != nil {
		auditProfile(r, "user.delete", id, "delete", err)
		h.writeError(w, r, err)
		return
	}
	auditProfile(r, "user.delete", id, "delete", nil)
	response.JSON(w, r, http.StatusOK, "User deleted successfully", nil)
}

func (h *UserHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrRecordNotFound):
		response.Error(w, r, http.StatusNotFound, "User not found", nil)
	case writeCommonError(w, r, err):
	default:
		writeInternal(w, r, err)
	}
}

func auditProfile(r *http.Request, event, targetID, action string, err error) {
	in := observability.AuditInput{
		EventName:  event,
		TargetType: "user_profile",
		TargetID:   targetID,
		Action:     action,
		Outcome:    "success",
	}
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		in.ActorUserID = claims.Subject
	}
	if err != nil {
		in.Outcome = "failure"
		in.Reason = errorReason(err)
	}
	observability.EmitAudit(r, in)
}
