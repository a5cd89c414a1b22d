package patient

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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
	g.GET("/find-all", h.FindAll, auth.RequireRole("admin", "doctor"))
	g.GET("/find/:id", h.Find, auth.RequireRole("admin", "doctor", "patient"))
	g.POST("", h.Create, auth.RequireRole("admin"))
	g.PUT("/:id", h.Update, auth.RequireRole("admin", "patient"))
	g.DELETE("/:id", h.Delete, auth.RequireRole("admin"))
}

func (h *Handler) FindAll(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("name"), pg.Limit, pg.Offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	if items == nil {
		items = []*Patient{}
	}
	return c.JSON(http.StatusOK, api.OK().
		With("patients", items).
		With("total", total))
}

func (h *Handler) Find(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid id"))
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.Fail("patient not found"))
		}
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusOK, api.OK().With("data", p))
}

type patientRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address   string `json:"address"`
}

func (req *patientRequest) apply(p *Patient) error {
	p.Name = req.Name
	p.Gender = req.Gender
	if req.Email != "" {
		p.Email = &req.Email
	}
	if req.Phone != "" {
		p.Phone = &req.Phone
	}
	if req.Address != "" {
		p.Address = &req.Address
	}
	if req.BirthDate != "" {
		bd, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return err
		}
		p.BirthDate = &bd
	}
	return nil
}

func (h *Handler) Create(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid patient request"))
	}
	var p Patient
	if err := req.apply(&p); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusCreated, api.OK().With("data", &p))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid id"))
	}
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid patient request"))
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.Fail("patient not found"))
		}
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	if err := req.apply(p); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	if err := h.svc.Update(c.Request().Context(), p); err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusOK, api.OK().With("data", p))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.Fail("invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, api.Fail(err.Error()))
	}
	return c.JSON(http.StatusOK, api.OK())
}
