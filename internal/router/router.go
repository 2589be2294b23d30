package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"pixelgram/internal/handler"
	appmw "pixelgram/internal/middleware"
	"pixelgram/internal/repository"
	"pixelgram/internal/session"
)

// Handlers collects the route handlers the application exposes.
type Handlers struct {
	Auth  *handler.AuthHandler
	Home  *handler.HomeHandler
	Post  *handler.PostHandler
	Admin *handler.AdminHandler
}

// RegisterRoutes wires every route onto the Echo instance.  The session
// middleware runs on each request so handlers can read the current user from
// the context; /admin additionally requires authority.
func RegisterRoutes(e *echo.Echo, h Handlers, store *session.Store, users *repository.UserRepo) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(appmw.WithSession(store, users))

	e.GET("/initialize", h.Admin.GetInitialize)

	e.GET("/login", h.Auth.GetLogin)
	e.POST("/login", h.Auth.PostLogin)
	e.GET("/register", h.Auth.GetRegister)
	e.POST("/register", h.Auth.PostRegister)
	e.GET("/logout", h.Auth.GetLogout)

	e.GET("/", h.Home.GetIndex)
	e.POST("/", h.Post.PostIndex)
	e.GET("/@:account_name", h.Home.GetUserProfile)
	e.GET("/posts", h.Home.GetPosts)
	e.GET("/posts/:id", h.Home.GetPost)
	e.GET("/image/:filename", h.Post.GetImage)
	e.POST("/comment", h.Post.PostComment)

	admin := e.Group("/admin", appmw.RequireAdmin)
	admin.GET("/banned", h.Admin.GetBanned)
	admin.POST("/banned", h.Admin.PostBanned)

	e.Static("/", "web/public")
}
