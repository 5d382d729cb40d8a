package controllers

import (
	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/resp"
	"github.com/aldairalfaro98/prueba-agent-toteat/services"

	"github.com/gin-gonic/gin"
)

type TableController struct{ Svc *services.TableService }

func NewTableController(svc *services.TableService) *TableController {
	return &TableController{Svc: svc}
}

// POST /areas
func (h *TableController) CreateArea(c *gin.Context) {
	var req services.CreateAreaIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	a, err := h.Svc.CreateArea(&req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, a)
}

// DELETE /areas/:id
func (h *TableController) DeleteArea(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteArea(id); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": id})
}

// GET /areas/:id/tables
func (h *TableController) ListTables(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tables, err := h.Svc.ListByArea(id)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, tables)
}

// POST /tables
func (h *TableController) CreateTable(c *gin.Context) {
	var req services.CreateTableIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	t, err := h.Svc.CreateTable(&req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, t)
}

// GET /tables/:id
func (h *TableController) GetTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	t, err := h.Svc.Get(id)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, t)
}

// PATCH /tables/:id
func (h *TableController) UpdateTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	t, err := h.Svc.UpdateTable(id, updates)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, t)
}

// DELETE /tables/:id
func (h *TableController) DeleteTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteTable(id); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": id})
}

// POST /tables/:id/reserve
func (h *TableController) Reserve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Reserve(id); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"reserved": id})
}

// DELETE /tables/:id/reserve
func (h *TableController) CancelReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.CancelReservation(id); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"released": id})
}
