package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pindrop/internal/auth"
	"pindrop/internal/config"
	"pindrop/internal/geofence"
)

func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsCfg))

	bounds := geofence.NewBounds(cfg)

	r.GET("/health", healthHandler)

	group := r.Group("/api")
	{
		// Auth
		group.POST("/signup", SignupHandler(db))
		group.POST("/login", LoginHandler(cfg, db))

		// Pins
		group.GET("/pins", ListPinsHandler(db))
		group.POST("/pins", auth.AuthMiddleware(cfg, db, false), CreatePinHandler(cfg, db, bounds))
		group.PUT("/pins/:id", auth.AuthMiddleware(cfg, db, false), EditPinHandler(db))
		group.DELETE("/pins/:id", auth.AuthMiddleware(cfg, db, false), DeletePinHandler(db))
	}
	return r
}
