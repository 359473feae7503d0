package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/firstrankcoders/credential-service/internal/http/response"
	"github.com/firstrankcoders/credential-service/internal/repository"
	"github.com/firstrankcoders/credential-service/internal/service"
)

const (
	msgValidationFailed = "Validation failed"
	msgDuplicate        = "Duplicate entry. A record with this value already exists."
	msgInternal         = "Internal server error"
	msgInvalidBody      = "Invalid request body"
)

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func writeBadBody(w http.ResponseWriter, r *http.Request, err error) {
	response.Error(w, r, http.StatusBadRequest, msgInvalidBody, []service.FieldError{{Field: "body", Message: err.Error()}})
}

// writeCommonError handles the error classes whose status does not depend on
// the endpoint. It reports false when the caller must map err itself.
func writeCommonError(w http.ResponseWriter, r *http.Request, err error) bool {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(w, r, http.StatusBadRequest, msgValidationFailed, verr.Fields)
	case errors.Is(err, service.ErrDuplicateCredential):
		response.Error(w, r, http.StatusBadRequest, msgDuplicate, nil)
	case errors.Is(err, service.ErrStoreFailure):
		writeInternal(w, r, err)
	default:
		return false
	}
	return true
}

func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	response.Error(w, r, http.StatusInternalServerError, msgInternal, nil)
}

func parsePageRequest(r *http.Request) (repository.PageRequest, error) {
	page := repository.DefaultPage
	pageSize := repository.DefaultPageSize
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return repository.PageRequest{}, errors.New("page must be a positive integer")
		}
		page = v
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("page_size")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return repository.PageRequest{}, errors.New("page_size must be a positive integer")
		}
		if v > repository.MaxPageSize {
			return repository.PageRequest{}, fmt.Errorf("page_size must be <= %d", repository.MaxPageSize)
		}
		pageSize = v
	}
	return repository.PageRequest{Page: page, PageSize: pageSize}, nil
}

func paginatedData[T any](page repository.PageResult[T]) map[string]any {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return map[string]any{
		"items": items,
		"pagination": map[string]any{
			"page":       page.Page,
			"pageSize":   page.PageSize,
			"total":      page.Total,
			"totalPages": page.TotalPages,
		},
	}
}
