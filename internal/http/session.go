package http

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"todo-tracker/internal/domain"
	"todo-tracker/internal/repository"
)

const (
	sessionUserKey  = "user_id"
	ctxUserKey      = "currentUser"
	ctxCSRFTokenKey = "csrfFormToken"
)

func (h *Handler) signIn(c *gin.Context, user *domain.User) error {
	sess := sessions.Default(c)
	sess.Set(sessionUserKey, user.ID)
	return sess.Save()
}

func (h *Handler) signOut(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	return sess.Save()
}

// loadUser resolves the session cookie to a user record. A stale or
// missing session simply leaves the request unauthenticated; any other
// lookup failure is logged before falling back to the same state.
func (h *Handler) loadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if id, ok := sess.Get(sessionUserKey).(int64); ok {
			user, err := h.users.GetByID(c.Request.Context(), id)
			switch {
			case err == nil:
				c.Set(ctxUserKey, user)
			case !errors.Is(err, repository.ErrNotFound):
				h.logger.WithError(err).Error("resolve session user")
			}
		}
		c.Next()
	}
}

// requireAuth redirects unauthenticated requests to the login page.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}
