package httpapi

import (
	"net/http"

	"market-be/internal/address"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) listAddresses(c *gin.Context) {
	addresses, err := s.addresses.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

func (s *Server) getAddress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
		return
	}

	a, err := s.addresses.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

type createAddressReq struct {
	Type         string  `json:"address_type" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	Line1        string  `json:"address_line1" binding:"required"`
	Line2        *string `json:"address_line2"`
	City         string  `json:"city" binding:"required"`
	State        string  `json:"state" binding:"required"`
	Postal       string  `json:"postal_code" binding:"required"`
	Country      string  `json:"country" binding:"required"`
	SetAsDefault bool    `json:"set_as_default"`
}

func (s *Server) createAddress(c *gin.Context) {
	var req createAddressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := s.addresses.Create(c.Request.Context(), address.CreateAddressInput{
		Type:         address.Type(req.Type),
		Name:         req.Name,
		Phone:        req.Phone,
		Line1:        req.Line1,
		Line2:        req.Line2,
		City:         req.City,
		State:        req.State,
		Postal:       req.Postal,
		Country:      req.Country,
		SetAsDefault: req.SetAsDefault,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

type updateAddressReq struct {
	Name         string  `json:"name" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	Line1        string  `json:"address_line1" binding:"required"`
	Line2        *string `json:"address_line2"`
	City         string  `json:"city" binding:"required"`
	State        string  `json:"state" binding:"required"`
	Postal       string  `json:"postal_code" binding:"required"`
	Country      string  `json:"country" binding:"required"`
	SetAsDefault bool    `json:"set_as_default"`
}

func (s *Server) updateAddress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
		return
	}

	var req updateAddressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := s.addresses.Update(c.Request.Context(), address.UpdateAddressInput{
		AddressID:    id,
		Name:         req.Name,
		Phone:        req.Phone,
		Line1:        req.Line1,
		Line2:        req.Line2,
		City:         req.City,
		State:        req.State,
		Postal:       req.Postal,
		Country:      req.Country,
		SetAsDefault: req.SetAsDefault,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

func (s *Server) deleteAddress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
		return
	}

	if err := s.addresses.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) setDefaultAddress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
		return
	}

	if err := s.addresses.SetDefault(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
