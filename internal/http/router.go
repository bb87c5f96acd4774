package http

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	csrf "github.com/utrack/gin-csrf"

	"todo-tracker/internal/config"
)

// NewRouter assembles the gin engine: recovery, cookie sessions and
// CSRF protection in front of the application routes.
func NewRouter(h *Handler, cfg config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.TTLHours * 3600,
		HttpOnly: true,
	})
	router.Use(sessions.Sessions(cfg.Session.Cookie, store))

	router.Use(csrf.Middleware(csrf.Options{
		Secret: cfg.CSRF.Secret,
		ErrorFunc: func(c *gin.Context) {
			c.String(http.StatusBadRequest, "CSRF token mismatch")
			c.Abort()
		},
	}))
	// expose the per-session form token to handlers and templates
	router.Use(func(c *gin.Context) {
		c.Set(ctxCSRFTokenKey, csrf.GetToken(c))
		c.Next()
	})

	h.RegisterRoutes(router)
	return router
}
