package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/invorya/ledger-api/internal/application/dto"
	"github.com/invorya/ledger-api/internal/application/ledger"
	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
)

// TransferHandler maneja las peticiones HTTP de traslados entre sucursales (protegido).
type TransferHandler struct {
	uc *ledger.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *ledger.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Ejecutar traslado entre sucursales
// @Description  Escribe el OUT en origen y el IN en destino atómicamente; ambos
//
//	movimientos comparten el ID del traslado como reference_id. Si el saldo
//	origen no cubre la cantidad no se escribe nada.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "item_id, from_branch_id, to_branch_id, uom_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Transfer(c.Context(), ledger.TransferInput{
		CompanyID:    companyID,
		UserID:       userID,
		ItemID:       in.ItemID,
		FromBranchID: in.FromBranchID,
		ToBranchID:   in.ToBranchID,
		UOMID:        in.UOMID,
		Quantity:     in.Quantity,
		Notes:        in.Notes,
	})
	if err != nil {
		if err == domain.ErrInvalidTransferRoute {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ROUTE", Message: "sucursal origen y destino deben ser distintas"})
		}
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
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente en la sucursal origen"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(result))
}

// GetByID godoc
// @Summary      Consultar traslado con sus movimientos
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	transfer, movements, err := h.uc.GetTransfer(c.Context(), companyID, id)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "traslado no encontrado"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	movs := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		movs = append(movs, toMovementDTO(m))
	}
	return c.JSON(fiber.Map{"transfer": toTransferDTO(transfer), "movements": movs})
}

// List godoc
// @Summary      Listar traslados de la empresa
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageParams(c, 50)
	list, err := h.uc.ListTransfers(c.Context(), companyID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.TransferDTO, 0, len(list))
	for _, t := range list {
		out = append(out, toTransferDTO(t))
	}
	return c.JSON(fiber.Map{"total": len(out), "transfers": out})
}

func toTransferDTO(t *entity.StockTransfer) dto.TransferDTO {
	return dto.TransferDTO{
		ID:           t.ID,
		ItemID:       t.ItemID,
		FromBranchID: t.FromBranchID,
		ToBranchID:   t.ToBranchID,
		UOMID:        t.UOMID,
		Quantity:     t.Quantity,
		Status:       t.Status,
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
		CreatedBy:    t.CreatedBy,
	}
}

func toTransferResponse(r *ledger.TransferResult) dto.TransferResponse {
	movs := make([]dto.MovementDTO, 0, len(r.Movements))
	for _, m := range r.Movements {
		movs = append(movs, toMovementDTO(m))
	}
	return dto.TransferResponse{
		Transfer:    toTransferDTO(r.Transfer),
		Movements:   movs,
		FromBalance: toBalanceDTO(r.FromBalance),
		ToBalance:   toBalanceDTO(r.ToBalance),
	}
}
