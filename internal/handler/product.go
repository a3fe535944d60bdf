package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nawedy/melting-pot-plus/internal/catalog"
	"github.com/nawedy/melting-pot-plus/internal/dto"
	"github.com/nawedy/melting-pot-plus/internal/middleware"
)

type ProductHandler struct {
	catalog *catalog.Store
}

func NewProductHandler(catalog *catalog.Store) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lang := middleware.GetLang(c)
	products := h.catalog.List(catalog.Filter{
		Category:    req.Category,
		Country:     req.Country,
		Search:      req.Search,
		Lang:        lang,
		InStockOnly: req.InStockOnly,
	})

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp := dto.ToProductResponse(&products[i], lang)
		resp.Reviews = nil // list view omits review bodies
		items = append(items, resp)
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{Products: items, Total: len(items)})
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	product, ok := h.catalog.GetByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product, middleware.GetLang(c)))
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// UpdateStock is the admin path that flips a product's availability. Carts
// holding the product keep their line items; the next total recompute prices
// them at zero.
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	var req dto.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.catalog.SetStock(c.Param("id"), *req.InStock) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stock updated"})
}
