package appointment

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medbook/medbook/internal/domain/schedule"
	"github.com/medbook/medbook/internal/platform/api"
	"github.com/medbook/medbook/internal/platform/auth"
	"github.com/medbook/medbook/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes attaches appointment endpoints. The doctor-side transition
// endpoints live on the /doctor group, matching the paths the clients call.
func (h *Handler) RegisterRoutes(appt *echo.Group, doctor *echo.Group) {
	appt.GET("/find/:id", h.Find, auth.RequireRole("admin", "doctor", "patient"))
	appt.GET("/find-all", h.FindAll, auth.RequireRole("admin"))
	appt.POST("/book", h.Book, auth.RequireRole("admin", "patient"))
	appt.PUT("/admin-update/:id", h.AdminUpdate, auth.RequireRole("admin"))
	appt.PUT("/cancel/:id", h.Cancel, auth.RequireRole("admin", "patient"))

	doctor.POST("/appointment-confirm/:doctorId", h.ConfirmedForSession, auth.RequireRole("admin", "doctor"))
	doctor.PUT("/confirm-appointment/:id", h.Confirm, auth.RequireRole("admin", "doctor"))
	doctor.PUT("/complete-appointment/:id", h.Complete, auth.RequireRole("admin", "doctor"))
}

type bookRequest struct {
	DoctorID  string `json:"doctor_id" validate:"required,uuid4"`
	PatientID string `json:"patient_id" validate:"required,uuid4"`
	WorkDate  string `json:"work_date" validate:"required,datetime=2006-01-02"`
	WorkShift string `json:"work_shift" validate:"required,oneof=morning afternoon"`
	Reason    string `json:"reason"`
}

func (h *Handler) Book(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid booking request"))
	}

	a := &Appointment{
		DoctorID:  uuid.MustParse(req.DoctorID),
		PatientID: uuid.MustParse(req.PatientID),
		WorkShift: schedule.Shift(req.WorkShift),
	}
	date, err := schedule.ParseDate(req.WorkDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	a.WorkDate = date
	if req.Reason != "" {
		a.Reason = &req.Reason
	}

	if err := h.svc.Book(c.Request().Context(), a); err != nil {
		switch {
		case errors.Is(err, ErrNoSession), errors.Is(err, ErrNotBookable):
			return c.JSON(http.StatusConflict, api.Fail(err.Error()))
		}
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusCreated, api.OK().With("data", a))
}

func (h *Handler) Find(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid id"))
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.Fail("appointment not found"))
		}
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusOK, api.OK().With("data", a))
}

func (h *Handler) FindAll(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, k := range []string{"doctor_id", "patient_id", "status", "patient_name", "work_date"} {
		if v := c.QueryParam(k); v != "" {
			params[k] = v
		}
	}
	items, total, err := h.svc.Search(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, api.OK().
		With("data", items).
		With("total", total).
		With("limit", pg.Limit).
		With("offset", pg.Offset))
}

type adminUpdateRequest struct {
	WorkDate  string `json:"work_date" validate:"required,datetime=2006-01-02"`
	WorkShift string `json:"work_shift" validate:"required,oneof=morning afternoon"`
	DoctorID  string `json:"doctor_id" validate:"required,uuid4"`
	PatientID string `json:"patient_id" validate:"required,uuid4"`
	Status    string `json:"status" validate:"required,oneof=pending confirmed completed canceled"`
}

func (h *Handler) AdminUpdate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid id"))
	}
	var req adminUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid update request"))
	}

	date, err := schedule.ParseDate(req.WorkDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	a := &Appointment{
		ID:        id,
		DoctorID:  uuid.MustParse(req.DoctorID),
		PatientID: uuid.MustParse(req.PatientID),
		WorkDate:  date,
		WorkShift: schedule.Shift(req.WorkShift),
		Status:    Status(req.Status),
	}
	if err := h.svc.AdminUpdate(c.Request().Context(), a); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.Fail("appointment not found"))
		}
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusOK, api.OK())
}

type sessionRequest struct {
	WorkDate  string `json:"work_date" validate:"required,datetime=2006-01-02"`
	WorkShift string `json:"work_shift" validate:"required,oneof=morning afternoon"`
}

func (h *Handler) ConfirmedForSession(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid doctor id"))
	}
	var req sessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid session request"))
	}

	date, err := schedule.ParseDate(req.WorkDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	items, err := h.svc.ConfirmedForSession(c.Request().Context(), doctorID, date, schedule.Shift(req.WorkShift))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, api.OK().With("data", items))
}

func (h *Handler) Confirm(c echo.Context) error {
	return h.transition(c, h.svc.Confirm)
}

func (h *Handler) Complete(c echo.Context) error {
	return h.transition(c, h.svc.Complete)
}

func (h *Handler) Cancel(c echo.Context) error {
	return h.transition(c, h.svc.Cancel)
}

func (h *Handler) transition(c echo.Context, op func(ctx context.Context, id uuid.UUID) error) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid id"))
	}
	if err := op(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, api.Fail("appointment not found"))
		case errors.Is(err, ErrNotConfirmed), errors.Is(err, ErrNotPending), errors.Is(err, ErrTerminal):
			return c.JSON(http.StatusConflict, api.Fail(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusOK, api.OK())
}
