package main

import (
	"fmt"
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"

	"genapi/auth"
	"genapi/config"
	"genapi/controllers"
	"genapi/database"
	"genapi/repositories"
	"genapi/router"
	"genapi/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	var logger *zap.Logger
	switch cfg.LogLevel {
	case "debug":
		logger, _ = zap.NewDevelopment()
	default:
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync() // Make sure the buffer is flushed before the program exits

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if err := database.Seed(db); err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}

	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	userTypeRepo := repositories.NewUserTypeRepository(db)

	tokens := auth.NewTokenManager(cfg.JWT)

	authService := services.NewAuthService(userRepo, sessionRepo, resetRepo, tokens, logger)
	categoryService := services.NewCategoryService(categoryRepo)
	itemService := services.NewItemService(itemRepo, tagRepo)
	tagService := services.NewTagService(tagRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	userService := services.NewUserService(userRepo, sessionRepo, userTypeRepo)

	ws := new(restful.WebService)
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)

	controllers.NewSystemController(cfg).RegisterRoutes(ws)
	controllers.NewAuthController(authService).RegisterRoutes(ws)
	controllers.NewUserController(userService).RegisterRoutes(ws)
	controllers.NewCategoryController(categoryService).RegisterRoutes(ws)
	controllers.NewItemController(itemService).RegisterRoutes(ws)
	controllers.NewTagController(tagService).RegisterRoutes(ws)
	controllers.NewNotificationController(notificationService).RegisterRoutes(ws)

	gate := router.NewGate(tokens, sessionRepo, logger)
	container := router.New(cfg, gate, logger)
	container.Add(ws)

	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting server",
		zap.String("addr", addr),
		zap.String("env", cfg.App.Env),
		zap.String("base_path", cfg.BasePath()),
	)
	server := &http.Server{
		Addr:    addr,
		Handler: router.StripBasePath(cfg.BasePath(), container),
	}
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
