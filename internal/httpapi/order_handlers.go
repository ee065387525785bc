package httpapi

import (
	"net/http"
	"strconv"

	"market-be/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type checkoutReq struct {
	ShippingAddressID string  `json:"shipping_address_id" binding:"required,uuid"`
	BillingAddressID  string  `json:"billing_address_id" binding:"required,uuid"`
	Notes             *string `json:"notes"`
}

func (s *Server) checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shippingID, err := uuid.Parse(req.ShippingAddressID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shipping address id"})
		return
	}
	billingID, err := uuid.Parse(req.BillingAddressID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid billing address id"})
		return
	}

	o, err := s.orders.Checkout(c.Request.Context(), order.CheckoutInput{
		ShippingAddressID: shippingID,
		BillingAddressID:  billingID,
		Notes:             req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, o)
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.orders.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) getOrder(c *gin.Context) {
	orderID, err := parseOrderID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := s.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, o)
}

func (s *Server) cancelOrder(c *gin.Context) {
	orderID, err := parseOrderID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := s.orders.Cancel(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, o)
}

type updateStatusReq struct {
	Status         string  `json:"status" binding:"required"`
	TrackingNumber *string `json:"tracking_number"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	orderID, err := parseOrderID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := s.orders.UpdateStatus(c.Request.Context(), order.UpdateStatusInput{
		OrderID:        orderID,
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, o)
}

func parseOrderID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	return uint(id), err
}
