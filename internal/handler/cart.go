package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nawedy/melting-pot-plus/internal/cart"
	"github.com/nawedy/melting-pot-plus/internal/catalog"
	"github.com/nawedy/melting-pot-plus/internal/dto"
	"github.com/nawedy/melting-pot-plus/internal/kv"
	"github.com/nawedy/melting-pot-plus/internal/middleware"
	"github.com/nawedy/melting-pot-plus/internal/model"
)

// CartHandler rehydrates the session's cart from its snapshot on every
// request, applies the mutation, and returns the resulting state. Invalid
// mutations come back 200 with unchanged state; the cart swallows them by
// design.
type CartHandler struct {
	catalog   *catalog.Store
	snapshots kv.Store
}

func NewCartHandler(catalogStore *catalog.Store, snapshots kv.Store) *CartHandler {
	return &CartHandler{catalog: catalogStore, snapshots: snapshots}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	h.respond(c, store)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	if err := store.AddItem(c.Request.Context(), model.CartItem{
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		SelectedOptions: req.SelectedOptions,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.respond(c, store)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	if err := store.UpdateQuantity(c.Request.Context(), c.Param("productId"), req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.respond(c, store)
}

func (h *CartHandler) DeleteItem(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	if err := store.RemoveItem(c.Request.Context(), c.Param("productId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.respond(c, store)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	if err := store.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.respond(c, store)
}

func (h *CartHandler) ToggleCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	if err := store.Toggle(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.respond(c, store)
}

func (h *CartHandler) sessionCart(c *gin.Context) (*cart.Store, bool) {
	key := "cart:" + middleware.GetCartSession(c)
	store := cart.NewStore(h.catalog, h.snapshots, key)
	if err := store.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return nil, false
	}
	return store, true
}

func (h *CartHandler) respond(c *gin.Context, store *cart.Store) {
	lang := middleware.GetLang(c)
	state := store.State()

	items := make([]dto.CartItemResponse, 0, len(state.Items))
	for _, item := range state.Items {
		resp := dto.CartItemResponse{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			SelectedOptions: item.SelectedOptions,
		}
		// A line whose product vanished from the catalog is still rendered,
		// just without product data.
		if product, ok := store.GetProduct(item.ProductID); ok {
			resp.Name = product.Name.In(lang)
			resp.Price = product.Price
			resp.InStock = product.InStock
		}
		items = append(items, resp)
	}
	c.JSON(http.StatusOK, dto.CartResponse{Items: items, IsOpen: state.IsOpen, Total: state.Total})
}
