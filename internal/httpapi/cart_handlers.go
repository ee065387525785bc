package httpapi

import (
	"net/http"

	"market-be/internal/cart"
	"market-be/internal/utils"

	"github.com/gin-gonic/gin"
)

func (s *Server) viewCart(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	view, err := s.carts.View(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type addCartItemReq struct {
	ProductID string  `json:"product_id" binding:"required"`
	VariantID *string `json:"variant_id"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
}

func (s *Server) addCartItem(c *gin.Context) {
	var req addCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	line, err := s.carts.AddItem(c.Request.Context(), cart.AddItemParams{
		UserID:    userID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, line)
}

type updateCartItemReq struct {
	LineID   string `json:"line_id" binding:"required"`
	Quantity int    `json:"quantity"`
}

func (s *Server) updateCartItem(c *gin.Context) {
	var req updateCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	if err := s.carts.UpdateItem(c.Request.Context(), cart.UpdateItemParams{
		UserID:   userID,
		LineID:   req.LineID,
		Quantity: req.Quantity,
	}); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type removeCartItemReq struct {
	LineID string `json:"line_id" binding:"required"`
}

func (s *Server) removeCartItem(c *gin.Context) {
	var req removeCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	if err := s.carts.RemoveItem(c.Request.Context(), userID, req.LineID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) clearCart(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c.Request.Context())

	if err := s.carts.Clear(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
