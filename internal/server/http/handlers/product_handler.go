package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/server/http/dto"
)

// ProductHandler manages catalog endpoints.
type ProductHandler struct {
	facade CatalogFacade
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(facade CatalogFacade) *ProductHandler {
	return &ProductHandler{facade: facade}
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), productFromRequest(0, req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, dto.ToProductResponse(*product))
}

// Update handles PUT /products/:productId.
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid product id")
		return
	}

	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	product, err := h.facade.UpdateProduct(c.Request.Context(), productFromRequest(id, req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.ToProductResponse(*product))
}

// Get handles GET /products/:productId.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid product id")
		return
	}

	product, err := h.facade.Product(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.ToProductResponse(*product))
}

// List handles GET /products.
func (h *ProductHandler) List(c *gin.Context) {
	page := pageFromQuery(c)
	products, total, err := h.facade.Products(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, dto.ToProductResponse(p))
	}
	respondData(c, http.StatusOK, dto.ProductListResponse{
		Products:   items,
		Pagination: dto.NewPagination(page.Number, page.Size, total),
	})
}

func productFromRequest(id int64, req dto.ProductRequest) *model.Product {
	return &model.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    req.Category,
	}
}
