package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todo-tracker/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	todos  service.TodoService
	logger *logrus.Logger
}

func NewHandler(users service.UserService, todos service.TodoService, logger *logrus.Logger) *Handler {
	return &Handler{
		users:  users,
		todos:  todos,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	tmpl := template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	router.Use(h.loadUser())

	router.GET("/", h.home)
	router.GET("/signup", h.showSignup)
	router.POST("/signup", h.signup)
	router.GET("/login", h.showLogin)
	router.POST("/login", h.login)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	auth := router.Group("/", h.requireAuth())
	auth.POST("/logout", h.logout)
	auth.GET("/todos/current", h.currentTodos)
	auth.GET("/todos/completed", h.completedTodos)
	auth.GET("/todos/create", h.showCreate)
	auth.POST("/todos/create", h.createTodo)
	auth.GET("/todos/:id", h.viewTodo)
	auth.POST("/todos/:id", h.editTodo)
	auth.POST("/todos/:id/complete", h.completeTodo)
	auth.POST("/todos/:id/delete", h.deleteTodo)
}

func (h *Handler) home(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", nil)
}

func (h *Handler) showSignup(c *gin.Context) {
	h.render(c, http.StatusOK, "signup.html", gin.H{"Username": ""})
}

func (h *Handler) signup(c *gin.Context) {
	username := c.PostForm("username")

	user, err := h.users.Register(
		c.Request.Context(),
		username,
		c.PostForm("password1"),
		c.PostForm("password2"),
	)
	if err != nil {
		if errors.Is(err, service.ErrPasswordMismatch) ||
			errors.Is(err, service.ErrUsernameTaken) ||
			errors.Is(err, service.ErrInvalidInput) {
			h.render(c, http.StatusOK, "signup.html", gin.H{
				"Error":    err.Error(),
				"Username": username,
			})
			return
		}
		h.serverError(c, err)
		return
	}

	if err := h.signIn(c, user); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/todos/current")
}

func (h *Handler) showLogin(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Username": ""})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")

	user, err := h.users.Authenticate(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.render(c, http.StatusOK, "login.html", gin.H{
				"Error":    err.Error(),
				"Username": username,
			})
			return
		}
		h.serverError(c, err)
		return
	}

	if err := h.signIn(c, user); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/todos/current")
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.signOut(c); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) currentTodos(c *gin.Context) {
	user := currentUser(c)
	todos, err := h.todos.ListCurrent(c.Request.Context(), user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "current.html", gin.H{"Todos": todos})
}

func (h *Handler) completedTodos(c *gin.Context) {
	user := currentUser(c)
	todos, err := h.todos.ListCompleted(c.Request.Context(), user.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "completed.html", gin.H{"Todos": todos})
}

func (h *Handler) showCreate(c *gin.Context) {
	h.render(c, http.StatusOK, "create.html", gin.H{"Title": "", "Memo": ""})
}

func (h *Handler) createTodo(c *gin.Context) {
	user := currentUser(c)
	title := c.PostForm("title")
	memo := c.PostForm("memo")

	if _, err := h.todos.Create(c.Request.Context(), user.ID, title, memo); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.render(c, http.StatusOK, "create.html", gin.H{
				"Error": err.Error(),
				"Title": title,
				"Memo":  memo,
			})
			return
		}
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/todos/current")
}

func (h *Handler) viewTodo(c *gin.Context) {
	user := currentUser(c)
	id, ok := todoID(c)
	if !ok {
		h.notFound(c)
		return
	}

	todo, err := h.todos.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		h.todoError(c, err)
		return
	}
	h.render(c, http.StatusOK, "view.html", gin.H{"Todo": todo})
}

func (h *Handler) editTodo(c *gin.Context) {
	user := currentUser(c)
	id, ok := todoID(c)
	if !ok {
		h.notFound(c)
		return
	}

	_, err := h.todos.Update(c.Request.Context(), user.ID, id, c.PostForm("title"), c.PostForm("memo"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			// re-render with the stored values, not the rejected input
			todo, getErr := h.todos.Get(c.Request.Context(), user.ID, id)
			if getErr != nil {
				h.todoError(c, getErr)
				return
			}
			h.render(c, http.StatusOK, "view.html", gin.H{
				"Error": err.Error(),
				"Todo":  todo,
			})
			return
		}
		h.todoError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/todos/current")
}

func (h *Handler) completeTodo(c *gin.Context) {
	user := currentUser(c)
	id, ok := todoID(c)
	if !ok {
		h.notFound(c)
		return
	}

	if err := h.todos.Complete(c.Request.Context(), user.ID, id); err != nil {
		h.todoError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/todos/current")
}

func (h *Handler) deleteTodo(c *gin.Context) {
	user := currentUser(c)
	id, ok := todoID(c)
	if !ok {
		h.notFound(c)
		return
	}

	if err := h.todos.Delete(c.Request.Context(), user.ID, id); err != nil {
		h.todoError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/todos/current")
}

func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Error"]; !ok {
		data["Error"] = ""
	}
	data["User"] = currentUser(c)
	data["CSRF"] = c.GetString(ctxCSRFTokenKey)
	c.HTML(status, name, data)
}

func (h *Handler) todoError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrTodoNotFound) {
		h.notFound(c)
		return
	}
	h.serverError(c, err)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "notfound.html", nil)
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.logger.WithError(err).Error("request failed")
	c.String(http.StatusInternalServerError, "internal server error")
}
