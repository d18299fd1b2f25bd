package middlewares

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the configured frontend origin, plus any *.vercel.app
// preview when the frontend itself is hosted there.
func CORSMiddleware(origin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOriginFunc: func(o string) bool { return allowOrigin(origin, o) },
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}
	return cors.New(cfg)
}

func allowOrigin(allowed, origin string) bool {
	if allowed == "*" || origin == allowed {
		return true
	}
	if !strings.Contains(allowed, "vercel.app") {
		return false
	}
	u, err := url.Parse(origin)
	return err == nil && strings.HasSuffix(u.Hostname(), ".vercel.app")
}
