package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/invorya/ledger-api/internal/application/analytics"
	"github.com/invorya/ledger-api/internal/application/dto"
)

// AnalyticsHandler maneja los reportes analíticos de solo lectura (protegido).
type AnalyticsHandler struct {
	uc *analytics.UseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.UseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Valuation godoc
// @Summary      Valorización de inventario
// @Description  Saldos valorizados a costo promedio. branch_id vacío = todas las sucursales.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sucursal (UUID)"
// @Param        category   query  string  false  "Filtrar por categoría de artículo"
// @Success      200  {object}  dto.ValuationReportDTO
// @Router       /api/analytics/valuation [get]
func (h *AnalyticsHandler) Valuation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Valuation(c.Context(), companyID, c.Query("branch_id"), c.Query("category"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ValuationPDF godoc
// @Summary      Valorización de inventario en PDF
// @Tags         analytics
// @Security     Bearer
// @Produce      application/pdf
// @Param        branch_id  query  string  false  "Filtrar por sucursal (UUID)"
// @Success      200  {file}  binary
// @Router       /api/analytics/valuation/pdf [get]
func (h *AnalyticsHandler) ValuationPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	pdfBytes, err := h.uc.ValuationPDF(c.Context(), companyID, c.Query("branch_id"), c.Query("category"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="valorizacion.pdf"`)
	return c.Send(pdfBytes)
}

// ABC godoc
// @Summary      Clasificación ABC por valor de inventario
// @Description  Ordena artículos por valor descendente y clasifica por
//
//	contribución acumulada: A hasta 80%, B hasta 95%, C el resto.
//
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ABCReportDTO
// @Router       /api/analytics/abc [get]
func (h *AnalyticsHandler) ABC(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.ABCClassification(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SlowMoving godoc
// @Summary      Artículos de lenta rotación
// @Description  Saldos cuyo último movimiento supera el umbral de días (default 90).
//
//	Llaves sin ningún movimiento quedan excluidas.
//
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        branch_id       query  string  false  "Filtrar por sucursal (UUID)"
// @Param        threshold_days  query  int     false  "Umbral en días"  default(90)
// @Success      200  {object}  dto.SlowMovingReportDTO
// @Router       /api/analytics/slow-moving [get]
func (h *AnalyticsHandler) SlowMoving(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.SlowMoving(c.Context(), companyID, c.Query("branch_id"), c.QueryInt("threshold_days", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Turnover godoc
// @Summary      Rotación de inventario
// @Description  Salidas del período sobre stock actual, ascendente (más lento primero).
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        period_days  query  int  false  "Período en días"  default(365)
// @Success      200  {object}  dto.TurnoverReportDTO
// @Router       /api/analytics/turnover [get]
func (h *AnalyticsHandler) Turnover(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Turnover(c.Context(), companyID, c.QueryInt("period_days", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Saldos en punto de reorden
// @Description  Saldos con cantidad <= reorder_point del artículo (si el punto
//
//	es mayor que cero), ordenados por déficit descendente.
//
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LowStockReportDTO
// @Router       /api/analytics/low-stock [get]
func (h *AnalyticsHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.LowStock(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
