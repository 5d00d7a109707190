package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/invorya/ledger-api/internal/application/batch"
	"github.com/invorya/ledger-api/internal/application/dto"
	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
)

// BatchHandler maneja las peticiones HTTP del sub-libro de lotes (protegido).
type BatchHandler struct {
	uc *batch.UseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *batch.UseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Create godoc
// @Summary      Crear lote
// @Description  Crea el lote junto con su movimiento IN inicial (referencia
//
//	PRODUCTION) en una sola transacción. El artículo debe estar marcado
//	como batch-tracked.
//
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "item_id, branch_id, uom_id, batch_number, quantity"
// @Success      201   {object}  dto.BatchDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	created, err := h.uc.CreateBatch(c.Context(), batch.CreateBatchInput{
		CompanyID:      companyID,
		UserID:         userID,
		ItemID:         in.ItemID,
		BranchID:       in.BranchID,
		UOMID:          in.UOMID,
		BatchNumber:    in.BatchNumber,
		LotNumber:      in.LotNumber,
		SupplierBatch:  in.SupplierBatch,
		ProductionDate: in.ProductionDate,
		ExpiryDate:     in.ExpiryDate,
		Quantity:       in.Quantity,
		Notes:          in.Notes,
	})
	if err != nil {
		return batchError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchDTO(created))
}

// RecordMovement godoc
// @Summary      Registrar movimiento de lote
// @Description  Apendiza un movimiento al sub-libro del lote. Un OUT que exceda
//
//	la cantidad derivada del lote se rechaza sin escribir nada.
//
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del lote"
// @Param        body  body  dto.BatchMovementRequest  true  "type, quantity (magnitud positiva), reference_type"
// @Success      201   {object}  dto.BatchMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/movements [post]
func (h *BatchHandler) RecordMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.BatchMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.RecordMovement(c.Context(), batch.MovementInput{
		CompanyID:     companyID,
		UserID:        userID,
		BatchID:       c.Params("id"),
		Type:          in.Type,
		Quantity:      in.Quantity,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		FromBranchID:  in.FromBranchID,
		ToBranchID:    in.ToBranchID,
	})
	if err != nil {
		return batchError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BatchMovementResponse{
		Movement:        toBatchMovementDTO(result.Movement),
		CurrentQuantity: result.CurrentQuantity,
	})
}

// GetTraceability godoc
// @Summary      Trazabilidad de un lote
// @Description  Devuelve el lote, su cantidad derivada, el historial de
//
//	movimientos y el linaje de un salto (padre por supplier_batch, hijos que
//	lo referencian).
//
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.TraceabilityDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/traceability [get]
func (h *BatchHandler) GetTraceability(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	tr, err := h.uc.GetTraceability(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return batchError(c, err)
	}
	out := dto.TraceabilityDTO{
		Batch:           toBatchDTO(tr.Batch),
		CurrentQuantity: tr.CurrentQuantity,
		Movements:       make([]dto.BatchMovementDTO, 0, len(tr.Movements)),
		Downstream:      make([]dto.BatchDTO, 0, len(tr.Downstream)),
	}
	for _, m := range tr.Movements {
		out.Movements = append(out.Movements, toBatchMovementDTO(m))
	}
	if tr.Upstream != nil {
		up := toBatchDTO(tr.Upstream)
		out.Upstream = &up
	}
	for _, b := range tr.Downstream {
		out.Downstream = append(out.Downstream, toBatchDTO(b))
	}
	return c.JSON(out)
}

// UpdateQuality godoc
// @Summary      Actualizar estado de calidad
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del lote"
// @Param        body  body  dto.UpdateQualityRequest  true  "quality_status: PENDING | PASSED | FAILED | QUARANTINE"
// @Success      200   {object}  dto.BatchDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/quality [patch]
func (h *BatchHandler) UpdateQuality(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateQualityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	updated, err := h.uc.UpdateQuality(c.Context(), companyID, c.Params("id"), in.QualityStatus, in.Notes)
	if err != nil {
		return batchError(c, err)
	}
	return c.JSON(toBatchDTO(updated))
}

// ExpiryAlerts godoc
// @Summary      Lotes próximos a vencer
// @Description  Lotes con now < expiry_date <= now + days días. is_expired y
//
//	days_until_expiry se calculan al momento de la consulta.
//
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana de alerta en días"  default(30)
// @Success      200   {object}  map[string]interface{}
// @Router       /api/batches/expiry-alerts [get]
func (h *BatchHandler) ExpiryAlerts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	days := c.QueryInt("days", 30)
	alerts, err := h.uc.ExpiryAlerts(c.Context(), companyID, days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ExpiryAlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.ExpiryAlertDTO{
			Batch:           toBatchDTO(a.Batch),
			DaysUntilExpiry: a.DaysUntilExpiry,
			IsExpired:       a.IsExpired,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}

// GetByID godoc
// @Summary      Obtener lote por ID
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	b, err := h.uc.GetBatch(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return batchError(c, err)
	}
	return c.JSON(toBatchDTO(b))
}

// List godoc
// @Summary      Listar lotes de un artículo
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  true   "Artículo (UUID)"
// @Param        limit    query  int     false  "Límite"  default(50)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	itemID := c.Query("item_id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id es requerido"})
	}
	limit, offset := pageParams(c, 50)
	list, err := h.uc.ListByItem(c.Context(), companyID, itemID, limit, offset)
	if err != nil {
		return batchError(c, err)
	}
	out := make([]dto.BatchDTO, 0, len(list))
	for _, b := range list {
		out = append(out, toBatchDTO(b))
	}
	return c.JSON(fiber.Map{"total": len(out), "batches": out})
}

// batchError traduce los errores de dominio del sub-libro de lotes a HTTP.
func batchError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case domain.ErrItemNotBatchTracked:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NOT_BATCH_TRACKED", Message: "el artículo no maneja lotes"})
	case domain.ErrDuplicateBatchNumber:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_BATCH", Message: "número de lote ya existe para el artículo"})
	case domain.ErrInsufficientBatchQuantity:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_BATCH_QTY", Message: "cantidad insuficiente en el lote"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toBatchDTO(b *entity.Batch) dto.BatchDTO {
	return dto.BatchDTO{
		ID:             b.ID,
		ItemID:         b.ItemID,
		BranchID:       b.BranchID,
		UOMID:          b.UOMID,
		BatchNumber:    b.BatchNumber,
		LotNumber:      b.LotNumber,
		SupplierBatch:  b.SupplierBatch,
		ProductionDate: b.ProductionDate,
		ExpiryDate:     b.ExpiryDate,
		InitialQty:     b.Quantity,
		QualityStatus:  b.QualityStatus,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
	}
}

func toBatchMovementDTO(m *entity.BatchMovement) dto.BatchMovementDTO {
	return dto.BatchMovementDTO{
		ID:            m.ID,
		BatchID:       m.BatchID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		FromBranchID:  m.FromBranchID,
		ToBranchID:    m.ToBranchID,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		CreatedAt:     m.CreatedAt,
	}
}
