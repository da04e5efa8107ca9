package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"coin-admin-api/internal/config"
)

// Dependencies bundles the services the HTTP surface is built from.
type Dependencies struct {
	Roster   RosterService
	Games    GameService
	Sessions SessionService
	Entries  EntryService
}

// NewRouter assembles the gin engine: recovery, request logging, CORS
// for the dashboard origin, the /api route groups and a health probe.
func NewRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	NewGamesHandler(deps.Games).RegisterRoutes(api)
	NewAdminHandler(deps.Roster).RegisterRoutes(api)
	NewLoginsHandler(deps.Sessions).RegisterRoutes(api)
	NewEntriesHandler(deps.Entries).RegisterRoutes(api)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
