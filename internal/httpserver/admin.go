package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"photoprint/internal/domain"
	catalogsvc "photoprint/internal/service/catalog"
	ordersvc "photoprint/internal/service/order"
)

func adminListOrdersHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.DefaultQuery("status", string(domain.StatusPending))
		orders, err := svc.ListByStatus(c.Request.Context(), domain.OrderStatus(status), queryInt(c, "limit", 50), queryInt(c, "offset", 0))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func adminGetOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.GetAdmin(c.Request.Context(), domain.OrderID(c.Param("orderID")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func transitionOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	type request struct {
		Status         string  `json:"status" binding:"required"`
		Note           string  `json:"note"`
		ShippedDate    *string `json:"shippedDate"`
		TrackingNumber *string `json:"trackingNumber"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		in := ordersvc.TransitionInput{
			Note:           req.Note,
			TrackingNumber: req.TrackingNumber,
		}
		if req.ShippedDate != nil {
			shipped, err := time.Parse("2006-01-02", *req.ShippedDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "shippedDate must be YYYY-MM-DD"})
				return
			}
			in.ShippedDate = &shipped
		}
		order, err := svc.Transition(c.Request.Context(), domain.OrderID(c.Param("orderID")), domain.OrderStatus(req.Status), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listSizesHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sizes, err := svc.List(c.Request.Context(), false)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sizes": sizes})
	}
}

func adminListSizesHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sizes, err := svc.List(c.Request.Context(), true)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sizes": sizes})
	}
}

func createSizeHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		size, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, size)
	}
}

func updateSizeHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		in.SizeCode = c.Param("sizeCode")
		size, err := svc.Update(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, size)
	}
}

func setSizeActiveHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	type request struct {
		Active bool `json:"active"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := svc.SetActive(c.Request.Context(), c.Param("sizeCode"), req.Active); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
