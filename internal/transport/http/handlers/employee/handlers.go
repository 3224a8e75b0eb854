package employeehandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/auth"
	"ems/internal/domain/employee"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

const maxPhotoBytes = 2 * 1024 * 1024

type Handler struct {
	Service *employee.Service
}

func NewHandler(service *employee.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireRole(auth.RoleHR)).Get("/", h.handleList)
		r.Get("/{employeeID}", h.handleGet)
		r.Get("/{employeeID}/profile", h.handleGetProfile)
		r.Put("/{employeeID}/profile", h.handleUpdateProfile)
		r.Post("/{employeeID}/photo", h.handleUploadPhoto)
		r.Get("/{employeeID}/photo", h.handlePhoto)
	})
}

// employees may only touch their own record; HR may touch any.
func (h *Handler) authorize(r *http.Request, employeeID int64) bool {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		return false
	}
	if user.Role == auth.RoleHR {
		return true
	}
	return user.EmployeeID != nil && *user.EmployeeID == employeeID
}

func pathEmployeeID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	employees, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathEmployeeID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_employee_id", "invalid employee id", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.authorize(r, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot access another employee", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.Get(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathEmployeeID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_employee_id", "invalid employee id", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.authorize(r, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot access another employee", middleware.GetRequestID(r.Context()))
		return
	}

	profile, err := h.Service.Profile(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_get_failed", "failed to load profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, profile, middleware.GetRequestID(r.Context()))
}

type profilePayload struct {
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathEmployeeID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_employee_id", "invalid employee id", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.authorize(r, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot modify another employee", middleware.GetRequestID(r.Context()))
		return
	}

	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	err := h.Service.UpdateProfile(r.Context(), employee.Profile{
		EmployeeID:    employeeID,
		ContactNumber: payload.ContactNumber,
		Address:       payload.Address,
	})
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "profile_update_failed", "failed to update profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathEmployeeID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_employee_id", "invalid employee id", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.authorize(r, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot modify another employee", middleware.GetRequestID(r.Context()))
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart payload", middleware.GetRequestID(r.Context()))
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "photo_required", "photo file is required", middleware.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil || len(data) == 0 || len(data) > maxPhotoBytes {
		api.Fail(w, http.StatusBadRequest, "photo_too_large", "photo missing or exceeds size limit", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.UpdatePhoto(r.Context(), employeeID, header.Filename, data); err != nil {
		api.Fail(w, http.StatusInternalServerError, "photo_upload_failed", "failed to store photo", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"uploaded": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePhoto(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathEmployeeID(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_employee_id", "invalid employee id", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.authorize(r, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot access another employee", middleware.GetRequestID(r.Context()))
		return
	}

	name, data, err := h.Service.Photo(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "photo_get_failed", "failed to load photo", middleware.GetRequestID(r.Context()))
		return
	}
	if len(data) == 0 {
		api.Fail(w, http.StatusNotFound, "not_found", "no photo on record", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}
