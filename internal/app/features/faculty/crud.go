// internal/app/features/faculty/crud.go
package faculty

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/bmsit/facultymeet/internal/app/store/users"
	"github.com/bmsit/facultymeet/internal/app/system/htmlsanitize"
	"github.com/bmsit/facultymeet/internal/app/system/timeouts"
	"github.com/bmsit/facultymeet/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// facultyInput is the JSON body for create and edit requests.
type facultyInput struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation"`
	Status      string `json:"status,omitempty"`
}

// ServeList handles GET /faculty.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error("list faculty failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list faculty")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"faculty": users})
}

// ServeView handles GET /faculty/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "faculty member not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleCreate handles POST /faculty.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in facultyInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.FullName == "" || in.Email == "" {
		writeError(w, http.StatusBadRequest, "full_name and email are required")
		return
	}
	if !models.IsValidDesignation(in.Designation) {
		writeError(w, http.StatusBadRequest, "unrecognized designation")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u := models.User{
		FullName:    htmlsanitize.PlainText(in.FullName),
		Email:       in.Email,
		Department:  htmlsanitize.PlainText(in.Department),
		Designation: in.Designation,
		Status:      in.Status,
	}
	created, err := h.Users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("create faculty failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create faculty member")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleEdit handles PUT /faculty/{id}.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var in facultyInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !models.IsValidDesignation(in.Designation) {
		writeError(w, http.StatusBadRequest, "unrecognized designation")
		return
	}
	status := in.Status
	if status == "" {
		status = "active"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	upd := userstore.FacultyUpdate{
		FullName:    htmlsanitize.PlainText(in.FullName),
		Email:       in.Email,
		Department:  htmlsanitize.PlainText(in.Department),
		Designation: in.Designation,
		Status:      status,
	}
	if err := h.Users.Update(ctx, id, upd); err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("update faculty failed", zap.Error(err), zap.String("user_id", id.Hex()))
		writeError(w, http.StatusInternalServerError, "failed to update faculty member")
		return
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "faculty member not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleDelete handles DELETE /faculty/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Users.Delete(ctx, id)
	if err != nil {
		h.Log.Error("delete faculty failed", zap.Error(err), zap.String("user_id", id.Hex()))
		writeError(w, http.StatusInternalServerError, "failed to delete faculty member")
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "faculty member not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ServeDesignations handles GET /faculty/designations.
func (h *Handler) ServeDesignations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"designations": models.AllDesignations})
}
