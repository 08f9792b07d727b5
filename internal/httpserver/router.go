package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"photoprint/internal/domain"
)

// buildRouter wires routes for the API. Authentication happens upstream;
// handlers trust the identity headers the gateway injects.
func buildRouter(db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(log.StandardLogger().Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{"Content-Type", "X-User-ID"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/sizes", listSizesHandler(deps.CatalogSvc))

	user := router.Group("/", requireUser())
	{
		user.GET("/photos", listPhotosHandler(deps.PhotoSvc))
		user.POST("/photos", registerPhotoHandler(deps.PhotoSvc))
		user.GET("/photos/:photoID", getPhotoHandler(deps.PhotoSvc))
		user.DELETE("/photos/:photoID", deletePhotoHandler(deps.PhotoSvc))

		user.GET("/cart", getCartHandler(deps.CartSvc))
		user.GET("/cart/summary", cartSummaryHandler(deps.CartSvc))
		user.POST("/cart/lines", addCartLineHandler(deps.CartSvc))
		user.DELETE("/cart/lines/:photoID/:sizeCode", removeCartLineHandler(deps.CartSvc))
		user.PUT("/cart/photos/:photoID", replacePhotoLinesHandler(deps.CartSvc))
		user.DELETE("/cart", clearCartHandler(deps.CartSvc))

		user.POST("/orders", createOrderHandler(deps.OrderSvc))
		user.GET("/orders", listOrdersHandler(deps.OrderSvc))
		user.GET("/orders/:orderID", getOrderHandler(deps.OrderSvc))
	}

	admin := router.Group("/admin")
	{
		admin.GET("/orders", adminListOrdersHandler(deps.OrderSvc))
		admin.GET("/orders/:orderID", adminGetOrderHandler(deps.OrderSvc))
		admin.POST("/orders/:orderID/transition", transitionOrderHandler(deps.OrderSvc))

		admin.GET("/sizes", adminListSizesHandler(deps.CatalogSvc))
		admin.POST("/sizes", createSizeHandler(deps.CatalogSvc))
		admin.PUT("/sizes/:sizeCode", updateSizeHandler(deps.CatalogSvc))
		admin.PATCH("/sizes/:sizeCode/active", setSizeActiveHandler(deps.CatalogSvc))
	}

	return router
}

// requireUser pulls the pre-authenticated identity off the request.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}
		c.Set("userID", domain.UserID(userID))
		c.Next()
	}
}

func currentUser(c *gin.Context) domain.UserID {
	return c.MustGet("userID").(domain.UserID)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
