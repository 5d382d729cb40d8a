package controllers

import (
	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/resp"
	"github.com/aldairalfaro98/prueba-agent-toteat/services"

	"github.com/gin-gonic/gin"
)

type PaymentController struct{ Svc *services.PaymentService }

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{Svc: svc}
}

// POST /orders/:id/close
func (h *PaymentController) Close(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.CloseOrderIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := h.Svc.Close(id, &req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /orders/:id/payments
func (h *PaymentController) ListByOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payments, err := h.Svc.ListByOrder(id)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, payments)
}
