package httpapi

import (
	"net/http"

	"market-be/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type processPaymentReq struct {
	OrderID  uint    `json:"order_id" binding:"required"`
	Method   string  `json:"payment_method" binding:"required"`
	MethodID *string `json:"payment_method_id" binding:"omitempty,uuid"`
}

func (s *Server) processPayment(c *gin.Context) {
	var req processPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := payment.ProcessInput{
		OrderID: req.OrderID,
		Method:  payment.Method(req.Method),
	}
	if req.MethodID != nil {
		id := uuid.MustParse(*req.MethodID)
		input.MethodID = &id
	}

	p, err := s.payments.Process(c.Request.Context(), input)
	if err != nil {
		// declines still return the recorded payment alongside the error
		if p != nil {
			c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error(), "payment": p})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (s *Server) getOrderPayment(c *gin.Context) {
	orderID, err := parseOrderID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	p, err := s.payments.GetForOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (s *Server) listPaymentMethods(c *gin.Context) {
	methods, err := s.payments.ListMethods(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

type createPaymentMethodReq struct {
	Method       string  `json:"payment_method" binding:"required"`
	Provider     *string `json:"provider"`
	LastFour     *string `json:"last_four"`
	ExpiryMonth  *int    `json:"expiry_month"`
	ExpiryYear   *int    `json:"expiry_year"`
	SetAsDefault bool    `json:"set_as_default"`
}

func (s *Server) createPaymentMethod(c *gin.Context) {
	var req createPaymentMethodReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := s.payments.CreateMethod(c.Request.Context(), payment.CreateMethodInput{
		Method:       payment.Method(req.Method),
		Provider:     req.Provider,
		LastFour:     req.LastFour,
		ExpiryMonth:  req.ExpiryMonth,
		ExpiryYear:   req.ExpiryYear,
		SetAsDefault: req.SetAsDefault,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (s *Server) deletePaymentMethod(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
		return
	}

	if err := s.payments.DeleteMethod(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) setDefaultPaymentMethod(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
		return
	}

	if err := s.payments.SetDefaultMethod(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
