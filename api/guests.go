package api

import (
	"net/http"

	"github.com/Domenick1991/hotelbooking/internal/service/guests"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GuestHandler struct {
	service guests.GuestUseCase
}

func NewGuestHandler(service guests.GuestUseCase) *GuestHandler {
	return &GuestHandler{service: service}
}

func (h *GuestHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.register)
	router.GET("/:id", h.get)
	router.GET("/:id/bookings", h.bookings)
}

func (h *GuestHandler) register(c *gin.Context) {
	var req guests.RegisterGuestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	guest, err := h.service.RegisterGuest(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, guest)
}

func (h *GuestHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	guest, err := h.service.GetGuest(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if guest == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "guest not found"})
		return
	}
	c.JSON(http.StatusOK, guest)
}

func (h *GuestHandler) bookings(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	history, err := h.service.GetGuestBookings(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
