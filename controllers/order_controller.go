package controllers

import (
	"strconv"

	"github.com/aldairalfaro98/prueba-agent-toteat/entity"
	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/resp"
	"github.com/aldairalfaro98/prueba-agent-toteat/services"
	"github.com/aldairalfaro98/prueba-agent-toteat/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct{ Svc *services.OrderService }

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{Svc: svc}
}

// POST /orders
func (h *OrderController) Create(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	var req services.CreateOrderIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	o, err := h.Svc.Create(uid, &req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, o)
}

// GET /orders/:id
func (h *OrderController) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	o, err := h.Svc.Detail(id)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, o)
}

// GET /orders?status=&limit=
func (h *OrderController) List(c *gin.Context) {
	var statusID *uint
	if raw := c.Query("status"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			resp.BadRequest(c, "bad status id")
			return
		}
		id := uint(v)
		statusID = &id
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.Svc.List(statusID, limit)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, out)
}

// POST /orders/:id/items
func (h *OrderController) AddItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.AddLineItemIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	li, err := h.Svc.AddLineItem(id, &req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, li)
}

// PATCH /orders/:id/items/:cartId
func (h *OrderController) EditItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cartID, ok := paramID(c, "cartId")
	if !ok {
		return
	}
	var req services.EditLineItemIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	li, err := h.Svc.EditLineItem(id, cartID, &req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, li)
}

// DELETE /orders/:id/items/:cartId
func (h *OrderController) RemoveItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cartID, ok := paramID(c, "cartId")
	if !ok {
		return
	}
	if err := h.Svc.RemoveLineItem(id, cartID); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"removed": cartID})
}

// POST /orders/:id/discount
func (h *OrderController) ApplyDiscount(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.ApplyDiscountIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.ApplyDiscount(id, &req); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"applied": true})
}

// POST /orders/:id/tip
func (h *OrderController) ApplyTip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.ApplyTipIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.ApplyTip(id, &req); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"applied": true})
}

// POST /orders/:id/send
func (h *OrderController) SendToKitchen(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.SendToKitchen(id); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"sent": id})
}

// POST /orders/:id/bill
func (h *OrderController) BillItems(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		CartIDs []uint `json:"cartIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.BillLineItems(id, req.CartIDs); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"billed": req.CartIDs})
}

// POST /orders/:id/transfer
func (h *OrderController) Transfer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		FromTableID uint `json:"fromTableId" binding:"required"`
		ToTableID   uint `json:"toTableId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.Transfer(id, req.FromTableID, req.ToTableID); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"transferred": id})
}

// POST /orders/:id/merge
func (h *OrderController) Merge(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		SecondaryID uint `json:"secondaryId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.Merge(id, req.SecondaryID); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"merged": req.SecondaryID})
}

// GET /orders/:id/totals
func (h *OrderController) Totals(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	t, err := h.Svc.Totals(id)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, t)
}

// POST /orders/:id/credit-notes
//
// Waiters settle corrections through a manager; only admin and manager
// roles may issue credit notes.
func (h *OrderController) AddCreditNote(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	if utils.CurrentRole(c) == entity.RoleWaiter {
		resp.Forbidden(c, "credit notes require a manager")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.CreditNoteIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	note, err := h.Svc.AddCreditNote(id, uid, &req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, note)
}

// GET /orders/:id/credit-notes
func (h *OrderController) ListCreditNotes(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	notes, err := h.Svc.CreditNotes(id)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, notes)
}
