package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"pixelgram/internal/config"
	"pixelgram/internal/database"
	"pixelgram/internal/handler"
	"pixelgram/internal/repository"
	"pixelgram/internal/router"
	"pixelgram/internal/service"
	"pixelgram/internal/session"
	"pixelgram/internal/view"
)

// main is the single initialization point: every dependency is constructed
// once here and injected into the handlers.
func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	sessions, err := session.NewStore(cfg.RedisAddr)
	if err != nil {
		log.Fatalf("connect session store: %v", err)
	}

	renderer, err := view.New("web/templates")
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	users := repository.NewUserRepo(db)
	posts := repository.NewPostRepo(db)
	comments := repository.NewCommentRepo(db)
	assembler := service.NewAssembler(comments, users)

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	router.RegisterRoutes(e, router.Handlers{
		Auth:  handler.NewAuthHandler(users, sessions),
		Home:  handler.NewHomeHandler(posts, comments, users, assembler, sessions),
		Post:  handler.NewPostHandler(posts, comments, sessions),
		Admin: handler.NewAdminHandler(users, posts, comments, sessions),
	}, sessions, users)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
