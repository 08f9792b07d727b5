package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoprint/internal/domain"
	cartsvc "photoprint/internal/service/cart"
)

func getCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), currentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func cartSummaryHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.Summarize(c.Request.Context(), currentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func addCartLineHandler(svc *cartsvc.Service) gin.HandlerFunc {
	type request struct {
		PhotoID  string `json:"photoId" binding:"required"`
		SizeCode string `json:"sizeCode" binding:"required"`
		Quantity int    `json:"quantity" binding:"required"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := svc.AddOrUpdateLine(c.Request.Context(), currentUser(c), domain.PhotoID(req.PhotoID), req.SizeCode, req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func removeCartLineHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.RemoveLine(c.Request.Context(), currentUser(c), domain.PhotoID(c.Param("photoID")), c.Param("sizeCode"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func replacePhotoLinesHandler(svc *cartsvc.Service) gin.HandlerFunc {
	type request struct {
		Lines []cartsvc.LineInput `json:"lines"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := svc.ReplaceAllLinesForPhoto(c.Request.Context(), currentUser(c), domain.PhotoID(c.Param("photoID")), req.Lines)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func clearCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), currentUser(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
