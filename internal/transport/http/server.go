package http

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/peerline/signald/internal/config"
	"github.com/peerline/signald/internal/core"
	"github.com/peerline/signald/internal/ice"
)

// NewServer builds the HTTP server: health check, the WebSocket signaling
// endpoint and the ICE helper sub-path.
func NewServer(hub *core.Hub, iceSvc *ice.Service, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg.AllowedOrigins, logger)))
	router.GET("/ice-servers", iceServersHandler(iceSvc))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

// ICEServersResponse is the /ice-servers response body.
type ICEServersResponse struct {
	ICEServers []ice.Server `json:"iceServers"`
	TTL        int          `json:"ttl"`
}

func iceServersHandler(iceSvc *ice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.Query("user")
		c.JSON(stdhttp.StatusOK, ICEServersResponse{
			ICEServers: iceSvc.Servers(user, time.Now()),
			TTL:        iceSvc.TTL(),
		})
	}
}
