package router

import (
	"net/http"
	"strings"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"genapi/config"
)

// New assembles the request pipeline: CORS handling, OPTIONS preflight
// short-circuit, request logging, then the auth gate ahead of route matching.
func New(cfg *config.Config, gate *Gate, logger *zap.Logger) *restful.Container {
	container := restful.NewContainer()

	cors := restful.CrossOriginResourceSharing{
		AllowedDomains: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
		CookiesAllowed: cfg.CORS.Credentials,
		Container:      container,
	}
	container.Filter(cors.Filter)
	container.Filter(container.OPTIONSFilter)
	container.Filter(RequestLogger(logger))
	container.Filter(gate.Filter)
	container.ServiceErrorHandler(ServiceErrorHandler)

	return container
}

// StripBasePath removes the deployment prefix (e.g. "/api" in production)
// before the container sees the path. Requests outside the prefix get a JSON
// 404.
func StripBasePath(prefix string, next http.Handler) http.Handler {
	if prefix == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, prefix) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"Route not found"}`))
			return
		}
		r2 := r.Clone(r.Context())
		r2.URL.Path = strings.TrimPrefix(r.URL.Path, prefix)
		if r2.URL.Path == "" {
			r2.URL.Path = "/"
		}
		next.ServeHTTP(w, r2)
	})
}

// RequestLogger logs every request with a generated request id.
func RequestLogger(logger *zap.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		start := time.Now()
		requestID := uuid.NewString()
		resp.AddHeader("X-Request-Id", requestID)

		chain.ProcessFilter(req, resp)

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", req.Request.Method),
			zap.String("path", req.Request.URL.Path),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote_addr", req.Request.RemoteAddr),
			zap.String("user_agent", req.Request.UserAgent()),
		)
	}
}

// ServiceErrorHandler renders unmatched routes and method mismatches as the
// JSON error envelope instead of go-restful's plain text default.
func ServiceErrorHandler(serviceErr restful.ServiceError, req *restful.Request, resp *restful.Response) {
	message := "Route not found"
	if serviceErr.Code != http.StatusNotFound {
		message = serviceErr.Message
	}
	_ = resp.WriteHeaderAndJson(serviceErr.Code, map[string]any{
		"success": false,
		"message": message,
	}, restful.MIME_JSON)
}
