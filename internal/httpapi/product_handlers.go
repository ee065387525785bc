package httpapi

import (
	"net/http"

	"market-be/internal/product"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.products.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (s *Server) getProduct(c *gin.Context) {
	p, err := s.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

type createProductReq struct {
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug" binding:"required"`
	Description *string `json:"description"`
	Price       string  `json:"price" binding:"required"`
	Stock       int     `json:"stock" binding:"min=0"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	p, err := s.products.Create(c.Request.Context(), product.NewProductInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

type addVariantReq struct {
	Name  string `json:"name" binding:"required"`
	Price string `json:"price" binding:"required"`
	Stock int    `json:"stock" binding:"min=0"`
}

func (s *Server) addVariant(c *gin.Context) {
	var req addVariantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	v, err := s.products.AddVariant(c.Request.Context(), product.NewVariantInput{
		ProductID: c.Param("id"),
		Name:      req.Name,
		Price:     price,
		Stock:     req.Stock,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, v)
}
