package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig wires handlers into the router.
type RouterConfig struct {
	SearchHandler *SearchHandler
}

// NewRouter builds the gin engine with CORS and all search routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	}))

	router.GET("/healthcheck", HealthCheck)

	router.POST("/utterance/search", cfg.SearchHandler.SearchUtterances)
	router.POST("/summary/search", cfg.SearchHandler.SearchSummaries)
	router.POST("/question/search/", cfg.SearchHandler.SearchQuestions)
	router.POST("/image/search/by-description", cfg.SearchHandler.SearchImagesByDescription)
	router.POST("/image/search/by-image", cfg.SearchHandler.SearchImagesByImage)

	return router
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
