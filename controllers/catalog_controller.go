package controllers

import (
	"strconv"

	"github.com/aldairalfaro98/prueba-agent-toteat/pkg/resp"
	"github.com/aldairalfaro98/prueba-agent-toteat/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CatalogController struct{ Svc *services.CatalogService }

func NewCatalogController(svc *services.CatalogService) *CatalogController {
	return &CatalogController{Svc: svc}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		resp.BadRequest(c, "bad id")
		return 0, false
	}
	return uint(v), true
}

// POST /catalog/categories
func (h *CatalogController) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cat, err := h.Svc.CreateCategory(req.Name)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, cat)
}

// POST /catalog/products
func (h *CatalogController) CreateProduct(c *gin.Context) {
	var req services.CreateProductIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	p, err := h.Svc.CreateProduct(&req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, p)
}

// PATCH /catalog/products/:id
func (h *CatalogController) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateProductIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	p, err := h.Svc.UpdateProduct(id, &req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, p)
}

// DELETE /catalog/products/:id
func (h *CatalogController) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteProduct(id); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": id})
}

// GET /catalog/products
func (h *CatalogController) ListProducts(c *gin.Context) {
	products, err := h.Svc.ListProducts()
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, products)
}

// POST /catalog/modifiers
func (h *CatalogController) CreateModifier(c *gin.Context) {
	var req struct {
		Name       string          `json:"name" binding:"required"`
		PriceDelta decimal.Decimal `json:"priceDelta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	m, err := h.Svc.CreateModifier(req.Name, req.PriceDelta)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, m)
}

// POST /catalog/products/:id/modifiers/:modifierId
func (h *CatalogController) AttachModifier(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}
	modifierID, ok := paramID(c, "modifierId")
	if !ok {
		return
	}
	if err := h.Svc.AttachModifier(productID, modifierID); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"attached": modifierID})
}

// GET /catalog/products/:id/price?modifiers=1,2
func (h *CatalogController) LookupPrice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var modifierIDs []uint
	if raw := c.Query("modifiers"); raw != "" {
		for _, part := range splitCSVQuery(raw) {
			v, err := strconv.ParseUint(part, 10, 32)
			if err != nil {
				resp.BadRequest(c, "bad modifier id")
				return
			}
			modifierIDs = append(modifierIDs, uint(v))
		}
	}
	price, err := h.Svc.LookupPrice(id, modifierIDs)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	taxPercent, err := h.Svc.TaxPercent(id)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"price": price, "taxPercent": taxPercent})
}

// GET /catalog/export
func (h *CatalogController) Export(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="catalog.csv"`)
	if err := h.Svc.Export(c.Writer); err != nil {
		resp.ServerError(c, err)
	}
}

// POST /catalog/import?replace=true
func (h *CatalogController) Import(c *gin.Context) {
	replace := c.Query("replace") == "true"
	report, err := h.Svc.Import(c.Request.Body, replace)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, report)
}
