package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/auth"
	"ems/internal/domain/leave"
	"ems/internal/platform/jobs"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

const (
	maxAttachmentBytes = 2 * 1024 * 1024
	maxMultipartBytes  = 8 * 1024 * 1024
)

type Handler struct {
	Service *leave.Service
	Jobs    *jobs.Service
}

func NewHandler(service *leave.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{Service: service, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/balances/{employeeID}", h.handleBalances)
		r.Get("/balances/{employeeID}/available", h.handleAvailable)
		r.Get("/balances/{employeeID}/statement", h.handleStatement)
		r.Get("/requests", h.handleListRequests)
		r.Post("/requests", h.handleCreateRequest)
		r.Get("/requests/{requestID}", h.handleGetRequest)
		r.Get("/requests/{requestID}/attachment", h.handleAttachment)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/requests/{requestID}/decide", h.handleDecide)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/jobs/accrual/run", h.handleRunAccrual)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/jobs/carry-forward/run", h.handleRunCarryForward)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/jobs/cap/run", h.handleRunCapEnforcement)
	})
}

// failDomain maps a leave.ValidationError to the HTTP response, carrying the
// available/requested numbers through for insufficient-balance rejections.
func failDomain(w http.ResponseWriter, r *http.Request, err error) {
	var verr *leave.ValidationError
	if errors.As(err, &verr) {
		status := http.StatusBadRequest
		switch verr.Code {
		case leave.CodeNotFound:
			status = http.StatusNotFound
		case leave.CodeAlreadyDecided:
			status = http.StatusConflict
		}
		api.FailWith(w, status, &api.Error{
			Code:      verr.Code,
			Message:   verr.Message,
			Available: verr.Available,
			Requested: verr.Requested,
		}, middleware.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusInternalServerError, "leave_operation_failed", "leave operation failed", middleware.GetRequestID(r.Context()))
}

func canActFor(r *http.Request, employeeID int64) bool {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		return false
	}
	if user.Role == auth.RoleHR {
		return true
	}
	return user.EmployeeID != nil && *user.EmployeeID == employeeID
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(r, "employeeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_employee_id", "invalid employee id", middleware.GetRequestID(r.Context()))
		return
	}
	if !canActFor(r, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view another employee's balances", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.Balances(r.Context(), employeeID)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, map[string]any{
		"employeeId": employeeID,
		"balances":   record.ByLeaveType(),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAvailable(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(r, "employeeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_employee_id", "invalid employee id", middleware.GetRequestID(r.Context()))
		return
	}
	if !canActFor(r, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view another employee's balances", middleware.GetRequestID(r.Context()))
		return
	}

	leaveType := r.URL.Query().Get("type")
	available, resolved, err := h.Service.AvailableFor(r.Context(), employeeID, leaveType)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	if !resolved {
		api.Fail(w, http.StatusBadRequest, leave.CodeUnknownLeaveType, "unknown leave type: "+leaveType, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"employeeId": employeeID,
		"leaveType":  leaveType,
		"available":  available,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(r, "employeeID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_employee_id", "invalid employee id", middleware.GetRequestID(r.Context()))
		return
	}
	if !canActFor(r, employeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view another employee's balances", middleware.GetRequestID(r.Context()))
		return
	}

	pdfBytes, err := h.Service.BalanceStatementPDF(r.Context(), employeeID)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="leave-balance-statement.pdf"`)
	_, _ = w.Write(pdfBytes)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 25, 100)

	filter := leave.RequestFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if user.Role != auth.RoleHR {
		if user.EmployeeID == nil {
			api.Fail(w, http.StatusForbidden, "forbidden", "no employee record linked to this account", middleware.GetRequestID(r.Context()))
			return
		}
		filter.EmployeeID = user.EmployeeID
	} else if raw := r.URL.Query().Get("employeeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_employee_id", "invalid employee id", middleware.GetRequestID(r.Context()))
			return
		}
		filter.EmployeeID = &id
	}

	requests, total, err := h.Service.ListRequests(r.Context(), filter)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, map[string]any{
		"requests": requests,
		"total":    total,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if user.Role != auth.RoleHR && user.EmployeeID == nil {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record linked to this account", middleware.GetRequestID(r.Context()))
		return
	}

	if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart payload", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := int64(0)
	if user.EmployeeID != nil {
		employeeID = *user.EmployeeID
	}
	if user.Role == auth.RoleHR {
		if raw := r.FormValue("employeeId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				api.Fail(w, http.StatusBadRequest, "invalid_employee_id", "invalid employee id", middleware.GetRequestID(r.Context()))
				return
			}
			employeeID = id
		}
	}
	if employeeID <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_employee_id", "employee id is required", middleware.GetRequestID(r.Context()))
		return
	}

	startDate, errStart := shared.ParseDate(r.FormValue("startDate"))
	endDate, errEnd := shared.ParseDate(r.FormValue("endDate"))
	if errStart != nil || errEnd != nil {
		api.Fail(w, http.StatusBadRequest, leave.CodeInvalidDates, "invalid start or end date", middleware.GetRequestID(r.Context()))
		return
	}

	attachmentName, attachment, err := readAttachment(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "attachment_invalid", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	if len(attachment) == 0 {
		api.Fail(w, http.StatusBadRequest, "attachment_required", "supporting document is required", middleware.GetRequestID(r.Context()))
		return
	}

	created, err := h.Service.CreateRequest(r.Context(), leave.CreateRequestInput{
		EmployeeID:           employeeID,
		LeaveType:            r.FormValue("leaveType"),
		StartDate:            startDate,
		EndDate:              endDate,
		ContactNumber:        r.FormValue("contactNumber"),
		AlternateOfficerName: r.FormValue("alternateOfficerName"),
		Reason:               r.FormValue("reason"),
		AttachmentName:       attachmentName,
		Attachment:           attachment,
	})
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func readAttachment(r *http.Request) (string, []byte, error) {
	file, header, err := r.FormFile("attachment")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, nil
		}
		return "", nil, errors.New("invalid attachment upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentBytes+1))
	if err != nil {
		return "", nil, errors.New("failed to read attachment")
	}
	if len(data) > maxAttachmentBytes {
		return "", nil, errors.New("attachment exceeds size limit")
	}
	return header.Filename, data, nil
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "requestID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_request_id", "invalid request id", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.GetRequest(r.Context(), requestID)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	if !canActFor(r, req.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view another employee's request", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAttachment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "requestID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_request_id", "invalid request id", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.GetRequest(r.Context(), requestID)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	if !canActFor(r, req.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot view another employee's request", middleware.GetRequestID(r.Context()))
		return
	}

	name, data, err := h.Service.Attachment(r.Context(), requestID)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	if len(data) == 0 {
		api.Fail(w, http.StatusNotFound, "not_found", "no attachment on record", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}

type decidePayload struct {
	Status    string `json:"status"`
	HRRemarks string `json:"hrRemarks"`
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "requestID")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_request_id", "invalid request id", middleware.GetRequestID(r.Context()))
		return
	}

	var payload decidePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	decided, err := h.Service.Decide(r.Context(), requestID, payload.Status, payload.HRRemarks)
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, decided, middleware.GetRequestID(r.Context()))
}

type accrualPayload struct {
	Year       int   `json:"year"`
	Month      int   `json:"month"`
	EmployeeID int64 `json:"employeeId,omitempty"`
}

func (h *Handler) handleRunAccrual(w http.ResponseWriter, r *http.Request) {
	var payload accrualPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	now := time.Now().UTC()
	if payload.Year == 0 {
		payload.Year = now.Year()
	}
	if payload.Month == 0 {
		payload.Month = int(now.Month())
	}
	if payload.Month < 1 || payload.Month > 12 {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be 1-12", middleware.GetRequestID(r.Context()))
		return
	}

	var only []int64
	if payload.EmployeeID > 0 {
		only = append(only, payload.EmployeeID)
	}
	summary, err := h.Jobs.RunNow(r.Context(), jobs.JobMonthlyAccrual, func(ctx context.Context) (any, error) {
		return h.Service.RunMonthlyAccrual(ctx, payload.Year, payload.Month, only...)
	})
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

type carryPayload struct {
	Year int `json:"year"`
}

func (h *Handler) handleRunCarryForward(w http.ResponseWriter, r *http.Request) {
	var payload carryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Year == 0 {
		payload.Year = time.Now().UTC().Year()
	}

	summary, err := h.Jobs.RunNow(r.Context(), jobs.JobCarryForward, func(ctx context.Context) (any, error) {
		return h.Service.RunCarryForward(ctx, payload.Year)
	})
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRunCapEnforcement(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Jobs.RunNow(r.Context(), jobs.JobCapEnforcement, func(ctx context.Context) (any, error) {
		return h.Service.EnforceCombinedCap(ctx)
	})
	if err != nil {
		failDomain(w, r, err)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}
