package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/SiRoHK/MiniAnazinClone/middleware"
	"github.com/SiRoHK/MiniAnazinClone/models"
	"github.com/SiRoHK/MiniAnazinClone/repository"
	"github.com/SiRoHK/MiniAnazinClone/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductController struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewProductController(products repository.ProductRepository, logger *zap.Logger) *ProductController {
	return &ProductController{products: products, logger: logger}
}

// GetProducts lists in-stock products.
func (pc *ProductController) GetProducts(c *gin.Context) {
	products, err := pc.products.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// SearchProducts filters products by a search term and an optional price
// range.
func (pc *ProductController) SearchProducts(c *gin.Context) {
	term := c.Query("q")

	var minPrice, maxPrice *float64
	if v := c.Query("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
			return
		}
		minPrice = &f
	}
	if v := c.Query("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
			return
		}
		maxPrice = &f
	}

	products, err := pc.products.Search(c.Request.Context(), term, minPrice, maxPrice)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct fetches a single product by id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := pc.products.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product to the catalog. Admin only; the creator is
// taken from the verified claims, not the body.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req types.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload"})
		return
	}

	claims, err := middleware.GetClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CreatedBy:   claims.UserID,
	}
	id, err := pc.products.Create(c.Request.Context(), product)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/products/%d", id))
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct overwrites a product's editable fields.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req types.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload"})
		return
	}
	if req.ID != id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID mismatch"})
		return
	}

	product := &models.Product{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := pc.products.Update(c.Request.Context(), product); err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteProduct soft-deletes a product.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := pc.products.SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock applies a stock delta, clamped at zero.
func (pc *ProductController) AdjustStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req types.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock payload"})
		return
	}

	found, err := pc.products.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("product with ID %d not found", id)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}
