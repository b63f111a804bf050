package http

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tms-settlements/internal/application/dto"
	"github.com/jhoicas/tms-settlements/internal/application/settlement"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
	domainsettlement "github.com/jhoicas/tms-settlements/internal/domain/settlement"
)

// SettlementRunner disparo manual y vista previa de la generación.
type SettlementRunner interface {
	RunManual(ctx context.Context, companyID string, start, end *time.Time, requestedBy string) (*settlement.Result, error)
	Preview(ctx context.Context, companyID string, start, end *time.Time) ([]*entity.Driver, domainsettlement.Period, error)
}

// SettlementQueries consultas de liquidaciones existentes.
type SettlementQueries interface {
	List(ctx context.Context, f repository.SettlementListFilter) ([]*entity.Settlement, int, error)
	Get(ctx context.Context, companyID, id string) (*entity.Settlement, error)
	StatementPDF(ctx context.Context, companyID, id string) ([]byte, string, error)
}

// SettlementHandler maneja las peticiones HTTP de liquidaciones (protegido).
type SettlementHandler struct {
	runner   SettlementRunner
	queries  SettlementQueries
	validate *validator.Validate
}

// NewSettlementHandler construye el handler.
func NewSettlementHandler(runner SettlementRunner, queries SettlementQueries) *SettlementHandler {
	return &SettlementHandler{runner: runner, queries: queries, validate: validator.New()}
}

// Generate godoc
// @Summary      Generar liquidaciones (disparo manual)
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.GenerateSettlementsRequest  false  "companyId, periodStart, periodEnd (opcionales)"
// @Success      200   {object}  dto.GenerateSettlementsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/settlements/generate [post]
func (h *SettlementHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateSettlementsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	companyID := GetCompanyID(c)
	if role, _ := entity.ParseRole(GetRole(c)); role.Can(entity.PermSettlementsAllTenants) {
		// ADMIN: companyId vacío = todas las empresas activas.
		companyID = in.CompanyID
	}

	res, err := h.runner.RunManual(c.UserContext(), companyID, in.PeriodStart, in.PeriodEnd, GetUserID(c))
	if err != nil {
		return writeError(c, err, "empresa no encontrada")
	}
	return c.JSON(toGenerateResponse(res))
}

// Eligible godoc
// @Summary      Conductores que entrarían en una corrida manual
// @Tags         settlements
// @Produce      json
// @Security     BearerAuth
// @Param        periodStart  query  string  false  "RFC3339"
// @Param        periodEnd    query  string  false  "RFC3339"
// @Success      200  {array}   dto.EligibleDriverResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/settlements/eligible [get]
func (h *SettlementHandler) Eligible(c *fiber.Ctx) error {
	start, end, err := periodQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	drivers, period, err := h.runner.Preview(c.UserContext(), GetCompanyID(c), start, end)
	if err != nil {
		return writeError(c, err, "empresa no encontrada")
	}
	out := make([]dto.EligibleDriverResponse, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, dto.EligibleDriverResponse{ID: d.ID, DriverNumber: d.DriverNumber, Name: d.FullName(), Status: d.Status})
	}
	c.Set("X-Period-Start", period.Start.Format(time.RFC3339))
	c.Set("X-Period-End", period.End.Format(time.RFC3339Nano))
	return c.JSON(out)
}

// List godoc
// @Summary      Listar liquidaciones de la empresa
// @Tags         settlements
// @Produce      json
// @Security     BearerAuth
// @Param        driverId  query  string  false  "filtrar por conductor"
// @Param        from      query  string  false  "periodStart >= from (RFC3339)"
// @Param        to        query  string  false  "periodEnd <= to (RFC3339)"
// @Param        limit     query  int     false  "default 20, máx 100"
// @Param        offset    query  int     false  "default 0"
// @Success      200  {object}  dto.SettlementListResponse
// @Router       /api/settlements [get]
func (h *SettlementHandler) List(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	page := pageQuery(c)

	items, total, err := h.queries.List(c.UserContext(), repository.SettlementListFilter{
		CompanyID: GetCompanyID(c),
		DriverID:  c.Query("driverId"),
		From:      from,
		To:        to,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return writeError(c, err, "")
	}
	out := dto.SettlementListResponse{
		Items: make([]dto.SettlementResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, s := range items {
		out.Items = append(out.Items, toSettlementResponse(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de una liquidación
// @Tags         settlements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "settlement ID"
// @Success      200  {object}  dto.SettlementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settlements/{id} [get]
func (h *SettlementHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.queries.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err, "liquidación no encontrada")
	}
	return c.JSON(toSettlementResponse(s))
}

// StatementPDF godoc
// @Summary      Estado de cuenta PDF de la liquidación
// @Tags         settlements
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "settlement ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settlements/{id}/pdf [get]
func (h *SettlementHandler) StatementPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.queries.StatementPDF(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err, "liquidación no encontrada")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(pdf)))
	return c.Send(pdf)
}

func periodQuery(c *fiber.Ctx) (start, end *time.Time, err error) {
	if start, err = parseTimeQuery(c, "periodStart"); err != nil {
		return nil, nil, fmt.Errorf("periodStart debe ser RFC3339")
	}
	if end, err = parseTimeQuery(c, "periodEnd"); err != nil {
		return nil, nil, fmt.Errorf("periodEnd debe ser RFC3339")
	}
	return start, end, nil
}

func toGenerateResponse(r *settlement.Result) dto.GenerateSettlementsResponse {
	errs := make([]dto.RunErrorResponse, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, dto.RunErrorResponse{CompanyID: e.CompanyID, DriverID: e.DriverID, Error: e.Error})
	}
	return dto.GenerateSettlementsResponse{
		RunID:                r.RunID,
		Success:              r.Success,
		TotalCompanies:       r.TotalCompanies,
		TotalDrivers:         r.TotalDrivers,
		SettlementsGenerated: r.SettlementsGenerated,
		SkippedExisting:      r.SkippedExisting,
		ErrorCount:           len(r.Errors),
		Errors:               errs,
		PeriodStart:          r.PeriodStart,
		PeriodEnd:            r.PeriodEnd,
		StartTime:            r.StartTime,
		EndTime:              r.EndTime,
		DurationMs:           r.DurationMs,
	}
}

func toSettlementResponse(s *entity.Settlement) dto.SettlementResponse {
	loadIDs := s.LoadIDs
	if loadIDs == nil {
		loadIDs = []string{}
	}
	return dto.SettlementResponse{
		ID:               s.ID,
		CompanyID:        s.CompanyID,
		DriverID:         s.DriverID,
		SettlementNumber: s.SettlementNumber,
		PeriodStart:      s.PeriodStart,
		PeriodEnd:        s.PeriodEnd,
		GrossPay:         s.GrossPay,
		Deductions:       s.Deductions,
		NetPay:           s.NetPay,
		Status:           s.Status,
		LoadIDs:          loadIDs,
		CreatedAt:        s.CreatedAt,
	}
}
