package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photoprint/internal/domain"
	photosvc "photoprint/internal/service/photo"
)

func listPhotosHandler(svc *photosvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := currentUser(c)
		if c.Query("deletable") == "true" {
			photos, err := svc.ListDeletable(c.Request.Context(), owner)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"photos": photos})
			return
		}
		photos, err := svc.List(c.Request.Context(), owner, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"photos": photos})
	}
}

func registerPhotoHandler(svc *photosvc.Service) gin.HandlerFunc {
	type request struct {
		Filename  string `json:"filename" binding:"required"`
		BlobRef   string `json:"blobRef" binding:"required"`
		WidthPx   int    `json:"widthPx"`
		HeightPx  int    `json:"heightPx"`
		SizeBytes int64  `json:"sizeBytes"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		photo, err := svc.Register(c.Request.Context(), currentUser(c), photosvc.RegisterInput{
			Filename:  req.Filename,
			BlobRef:   req.BlobRef,
			WidthPx:   req.WidthPx,
			HeightPx:  req.HeightPx,
			SizeBytes: req.SizeBytes,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, photo)
	}
}

func getPhotoHandler(svc *photosvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		photo, err := svc.Get(c.Request.Context(), currentUser(c), domain.PhotoID(c.Param("photoID")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, photo)
	}
}

func deletePhotoHandler(svc *photosvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), currentUser(c), domain.PhotoID(c.Param("photoID"))); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
