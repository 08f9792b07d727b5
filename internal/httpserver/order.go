package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoprint/internal/domain"
	ordersvc "photoprint/internal/service/order"
)

func createOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	type request struct {
		ShippingAddress domain.Address `json:"shippingAddress" binding:"required"`
		PaymentMethod   string         `json:"paymentMethod" binding:"required"`
		CardEnvelope    string         `json:"cardEnvelope"`
		Branch          string         `json:"branch"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := svc.CreateOrder(c.Request.Context(), currentUser(c), ordersvc.CreateInput{
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
			CardEnvelope:    req.CardEnvelope,
			Branch:          req.Branch,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func listOrdersHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListByOwner(c.Request.Context(), currentUser(c), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func getOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), currentUser(c), domain.OrderID(c.Param("orderID")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
