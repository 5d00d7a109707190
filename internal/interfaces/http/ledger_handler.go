package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/invorya/ledger-api/internal/application/dto"
	"github.com/invorya/ledger-api/internal/application/ledger"
	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del libro mayor de movimientos (protegido).
type LedgerHandler struct {
	uc *ledger.MovementUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.MovementUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Apendiza un movimiento IN/OUT/ADJUSTMENT y actualiza el saldo
//
//	de la llave (item, sucursal, UOM) en la misma transacción. Los TRANSFER
//	se registran vía POST /api/inventory/transfers.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, branch_id, uom_id, type, reference_type, quantity (magnitud positiva), unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *LedgerHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.RegisterMovement(c.Context(), ledger.MovementInput{
		CompanyID:     companyID,
		UserID:        userID,
		ItemID:        in.ItemID,
		BranchID:      in.BranchID,
		UOMID:         in.UOMID,
		Type:          in.Type,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		BatchNumber:   in.BatchNumber,
		LotNumber:     in.LotNumber,
		ExpiryDate:    in.ExpiryDate,
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo, sucursal o UOM no encontrado"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		Movement: toMovementDTO(result.Movement),
		Balance:  toBalanceDTO(result.Balance),
	})
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Description  Filtra por item_id o branch_id (al menos uno) y rango de fechas opcional.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id    query  string  false  "Filtrar por artículo (UUID)"
// @Param        branch_id  query  string  false  "Filtrar por sucursal (UUID)"
// @Param        from       query  string  false  "Fecha inicial YYYY-MM-DD"
// @Param        to         query  string  false  "Fecha final YYYY-MM-DD"
// @Param        limit      query  int     false  "Límite"  default(50)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	itemID := c.Query("item_id")
	branchID := c.Query("branch_id")
	if itemID == "" && branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id o branch_id es requerido"})
	}
	from, err := parseDateQuery(c.Query("from"), false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido, formato YYYY-MM-DD"})
	}
	to, err := parseDateQuery(c.Query("to"), true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido, formato YYYY-MM-DD"})
	}
	limit, offset := pageParams(c, 50)

	var list []*entity.StockMovement
	if itemID != "" {
		list, err = h.uc.ListByItem(c.Context(), companyID, itemID, from, to, limit, offset)
	} else {
		list, err = h.uc.ListByBranch(c.Context(), companyID, branchID, from, to, limit, offset)
	}
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo o sucursal no encontrado"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementDTO(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// GetBalance godoc
// @Summary      Consultar saldo puntual
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id    query  string  true  "Artículo (UUID)"
// @Param        branch_id  query  string  true  "Sucursal (UUID)"
// @Param        uom_id     query  string  true  "Unidad de medida (UUID)"
// @Success      200  {object}  dto.BalanceDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances/lookup [get]
func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	key := entity.BalanceKey{
		ItemID:   c.Query("item_id"),
		BranchID: c.Query("branch_id"),
		UOMID:    c.Query("uom_id"),
	}
	if key.ItemID == "" || key.BranchID == "" || key.UOMID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id, branch_id y uom_id son requeridos"})
	}
	balance, err := h.uc.GetBalance(c.Context(), companyID, key)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo o sucursal no encontrado"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toBalanceDTO(balance))
}

// ListBalances godoc
// @Summary      Listar saldos de una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  true   "Sucursal (UUID)"
// @Param        limit      query  int     false  "Límite"  default(50)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances [get]
func (h *LedgerHandler) ListBalances(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	branchID := c.Query("branch_id")
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id es requerido"})
	}
	limit, offset := pageParams(c, 50)
	list, err := h.uc.ListBalancesByBranch(c.Context(), companyID, branchID, limit, offset)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sucursal no encontrada"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BalanceDTO, 0, len(list))
	for _, b := range list {
		out = append(out, toBalanceDTO(b))
	}
	return c.JSON(fiber.Map{"total": len(out), "balances": out})
}

// ── Mapeo entidad → DTO (compartido con el handler de traslados) ─────────────

func toMovementDTO(m *entity.StockMovement) dto.MovementDTO {
	return dto.MovementDTO{
		ID:            m.ID,
		ItemID:        m.ItemID,
		BranchID:      m.BranchID,
		UOMID:         m.UOMID,
		Type:          m.Type,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		BatchNumber:   m.BatchNumber,
		LotNumber:     m.LotNumber,
		ExpiryDate:    m.ExpiryDate,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

func toBalanceDTO(b *entity.StockBalance) dto.BalanceDTO {
	return dto.BalanceDTO{
		ItemID:            b.ItemID,
		BranchID:          b.BranchID,
		UOMID:             b.UOMID,
		Quantity:          b.Quantity,
		ReservedQuantity:  b.ReservedQuantity,
		AvailableQuantity: b.AvailableQuantity,
		UpdatedAt:         b.UpdatedAt,
	}
}

// parseDateQuery interpreta YYYY-MM-DD; endOfDay incluye el día completo en el rango.
func parseDateQuery(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func pageParams(c *fiber.Ctx, defaultLimit int) (limit, offset int) {
	limit = c.QueryInt("limit", defaultLimit)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
