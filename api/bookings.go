package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:reference", h.get)
	router.DELETE("/:reference", h.cancel)
	router.POST("/:reference/payment", h.confirmPayment)
	router.POST("/:reference/check-in", h.checkIn)
	router.POST("/:reference/check-out", h.checkOut)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.GetBooking(c.Request.Context(), c.Param("reference"))
	if err != nil {
		writeError(c, err)
		return
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	result, err := h.service.CancelBooking(c.Request.Context(), c.Param("reference"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) confirmPayment(c *gin.Context) {
	h.respond(c, h.service.ConfirmPayment)
}

func (h *BookingHandler) checkIn(c *gin.Context) {
	h.respond(c, h.service.CheckIn)
}

func (h *BookingHandler) checkOut(c *gin.Context) {
	h.respond(c, h.service.CheckOut)
}

func (h *BookingHandler) respond(c *gin.Context, action func(ctx context.Context, reference string) (*booking.BookingDTO, error)) {
	result, err := action(c.Request.Context(), c.Param("reference"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
