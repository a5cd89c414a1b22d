package doctor

import (
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/find-all", h.FindAll, auth.RequireRole("admin", "doctor", "patient"))
	g.GET("/find/:id", h.Find, auth.RequireRole("admin", "doctor", "patient"))
	g.POST("", h.Create, auth.RequireRole("admin"))
	g.PUT("/:id", h.Update, auth.RequireRole("admin"))

	g.GET("/:id/work-sessions", h.WorkSessions, auth.RequireRole("admin", "doctor", "patient"))
	g.POST("/:id/work-sessions", h.AddWorkSession, auth.RequireRole("admin", "doctor"))
	g.DELETE("/:id/work-sessions/:sid", h.RemoveWorkSession, auth.RequireRole("admin", "doctor"))
}

func (h *Handler) FindAll(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	if items == nil {
		items = []*Doctor{}
	}
	return c.JSON(http.StatusOK, api.OK().
		With("doctors", items).
		With("total", total))
}

func (h *Handler) Find(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid id"))
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.Fail("doctor not found"))
		}
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusOK, api.OK().With("data", d))
}

type doctorRequest struct {
	Name      string `json:"name" validate:"required"`
	Specialty string `json:"specialty" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
}

func (h *Handler) Create(c echo.Context) error {
	var req doctorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid doctor request"))
	}
	d := &Doctor{Name: req.Name, Specialty: req.Specialty}
	if req.Email != "" {
		d.Email = &req.Email
	}
	if req.Phone != "" {
		d.Phone = &req.Phone
	}
	if err := h.svc.Create(c.Request().Context(), d); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusCreated, api.OK().With("data", d))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid id"))
	}
	var req doctorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid doctor request"))
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.Fail("doctor not found"))
		}
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	d.Name = req.Name
	d.Specialty = req.Specialty
	if req.Email != "" {
		d.Email = &req.Email
	}
	if req.Phone != "" {
		d.Phone = &req.Phone
	}
	if err := h.svc.Update(c.Request().Context(), d); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusOK, api.OK().With("data", d))
}

func (h *Handler) WorkSessions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid id"))
	}
	bookableOnly, _ := strconv.ParseBool(c.QueryParam("bookable"))
	sessions, err := h.svc.WorkSessions(c.Request().Context(), id, bookableOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	if sessions == nil {
		sessions = []schedule.WorkSession{}
	}
	return c.JSON(http.StatusOK, api.OK().With("data", sessions))
}

type workSessionRequest struct {
	WorkDate  string `json:"work_date" validate:"required,datetime=2006-01-02"`
	WorkShift string `json:"work_shift" validate:"required,oneof=morning afternoon"`
}

func (h *Handler) AddWorkSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid id"))
	}
	var req workSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid work session request"))
	}
	date, err := schedule.ParseDate(req.WorkDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	ws := &schedule.WorkSession{
		DoctorID:  id,
		WorkDate:  date,
		WorkShift: schedule.Shift(req.WorkShift),
	}
	if err := h.svc.AddWorkSession(c.Request().Context(), ws); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, api.Fail("doctor not found"))
		case errors.Is(err, ErrDuplicateSession):
			return c.JSON(http.StatusConflict, api.Fail(err.Error()))
		}
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusCreated, api.OK().With("data", ws))
}

func (h *Handler) RemoveWorkSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid id"))
	}
	sid, err := uuid.Parse(c.Param("sid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid session id"))
	}
	if err := h.svc.RemoveWorkSession(c.Request().Context(), id, sid); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, api.Fail("work session not found"))
		}
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusOK, api.OK())
}
