package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocksync/internal/application/dto"
	"github.com/jhoicas/stocksync/internal/application/inventory"
	"github.com/jhoicas/stocksync/internal/domain/entity"
)

// StockHandler registra entradas y salidas de stock.
type StockHandler struct {
	engine *inventory.Engine
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *inventory.Engine) *StockHandler {
	return &StockHandler{engine: engine}
}

// In godoc
// @Summary      Entrada de stock
// @Description  Suma la cantidad a la línea (producto, ubicación) y agrega un registro "in". Si no se envía operator se usa el usuario del token.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.TransactionRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/in [post]
func (h *StockHandler) In(c *fiber.Ctx) error {
	return h.post(c, h.engine.PostStockIn)
}

// Out godoc
// @Summary      Salida de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.TransactionRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/stock/out [post]
func (h *StockHandler) Out(c *fiber.Ctx) error {
	return h.post(c, h.engine.PostStockOut)
}

type postFunc func(ctx context.Context, in dto.StockMovementRequest) (*entity.TransactionRecord, error)

func (h *StockHandler) post(c *fiber.Ctx, fn postFunc) error {
	var in dto.StockMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if strings.TrimSpace(in.Operator) == "" {
		in.Operator = GetUserID(c)
	}
	rec, err := fn(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransactionRecordResponse{
		ID:         rec.ID,
		Type:       string(rec.Type),
		ProductID:  rec.ProductID,
		LocationID: rec.LocationID,
		Quantity:   rec.Quantity,
		Operator:   rec.Operator,
		Timestamp:  rec.Timestamp,
		Note:       rec.Note,
	})
}
