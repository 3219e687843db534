package controllers

import (
	"net/http"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"

	"genapi/config"
)

// SystemController serves the unauthenticated health and info endpoints.
type SystemController struct {
	cfg *config.Config
}

func NewSystemController(cfg *config.Config) *SystemController {
	return &SystemController{cfg: cfg}
}

func (ctl *SystemController) RegisterRoutes(ws *restful.WebService) {
	tags := []string{"system"}

	ws.Route(ws.GET("/health").To(ctl.health).
		Doc("Health check").
		Metadata(restfulspec.KeyOpenAPITags, tags))

	ws.Route(ws.GET("/info").To(ctl.info).
		Doc("API name, version and endpoint overview").
		Metadata(restfulspec.KeyOpenAPITags, tags))
}

func (ctl *SystemController) health(req *restful.Request, resp *restful.Response) {
	writeSuccess(resp, http.StatusOK, "Service is healthy", map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ctl.cfg.App.Version,
	})
}

func (ctl *SystemController) info(req *restful.Request, resp *restful.Response) {
	writeSuccess(resp, http.StatusOK, "API information", map[string]any{
		"name":        ctl.cfg.App.Name,
		"version":     ctl.cfg.App.Version,
		"environment": ctl.cfg.App.Env,
		"endpoints": map[string]string{
			"auth":          "/auth",
			"users":         "/users",
			"categories":    "/categories",
			"items":         "/items",
			"tags":          "/tags",
			"notifications": "/notifications",
			"health":        "/health",
			"info":          "/info",
		},
	})
}
