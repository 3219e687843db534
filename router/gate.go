package router

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"genapi/auth"
	"genapi/repositories"
)

// Request attribute keys set by the gate for downstream handlers.
const (
	ClaimsAttribute = "auth.claims"
	TokenAttribute  = "auth.token"
)

// paramPattern matches {param} placeholders in route patterns.
var paramPattern = regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_]*\}`)

// publicPostRoutes are the exact POST paths reachable without a token.
var publicPostRoutes = []string{
	"/auth/login",
	"/auth/register",
	"/auth/request-reset",
	"/auth/reset-password",
	"/health",
	"/info",
}

// privateGetRoutes are GET path patterns that require a token. Every other GET
// is public.
var privateGetRoutes = []string{
	"/auth/me",
	"/auth/profile",
	"/notifications",
	"/notifications/{id}",
	"/users",
	"/users/{id}",
}

// CompilePattern turns a {param} route pattern into an anchored regexp whose
// capture groups match [a-zA-Z0-9_-]+ segments.
func CompilePattern(pattern string) *regexp.Regexp {
	expr := paramPattern.ReplaceAllString(pattern, "([a-zA-Z0-9_-]+)")
	return regexp.MustCompile("^" + expr + "$")
}

// Gate classifies requests as public or protected and verifies bearer tokens
// against the session store before dispatch. It is installed as a container
// filter, so it runs ahead of route matching.
type Gate struct {
	tokens     *auth.TokenManager
	sessions   repositories.SessionRepository
	logger     *zap.Logger
	publicPost map[string]struct{}
	privateGet []*regexp.Regexp
}

func NewGate(tokens *auth.TokenManager, sessions repositories.SessionRepository, logger *zap.Logger) *Gate {
	g := &Gate{
		tokens:     tokens,
		sessions:   sessions,
		logger:     logger,
		publicPost: make(map[string]struct{}, len(publicPostRoutes)),
	}
	for _, route := range publicPostRoutes {
		g.publicPost[route] = struct{}{}
	}
	for _, route := range privateGetRoutes {
		g.privateGet = append(g.privateGet, CompilePattern(route))
	}
	return g
}

// RequiresAuth reports whether a method+path combination is protected.
// GET is public unless the path matches a private pattern; POST is public only
// on the exact allowlist; PUT and DELETE always require authentication.
func (g *Gate) RequiresAuth(method, path string) bool {
	switch method {
	case http.MethodPut, http.MethodDelete:
		return true
	case http.MethodGet:
		for _, pattern := range g.privateGet {
			if pattern.MatchString(path) {
				return true
			}
		}
		return false
	case http.MethodOptions:
		return false
	default:
		_, public := g.publicPost[path]
		return !public
	}
}

// Filter enforces the gate. On success the parsed claims and the raw token are
// stored as request attributes and the chain continues to route matching.
func (g *Gate) Filter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	method := req.Request.Method
	path := req.Request.URL.Path

	if !g.RequiresAuth(method, path) {
		chain.ProcessFilter(req, resp)
		return
	}

	token, ok := bearerToken(req.Request.Header.Get("Authorization"))
	if !ok {
		g.unauthorized(resp, "Unauthorized: Missing or invalid token")
		return
	}

	claims, err := g.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			// The session row is dead weight once its token expired.
			if delErr := g.sessions.DeleteByToken(token); delErr != nil {
				g.logger.Warn("failed to delete expired session", zap.Error(delErr))
			}
			g.unauthorized(resp, "Unauthorized: Token expired")
			return
		}
		g.unauthorized(resp, "Unauthorized: Invalid token")
		return
	}

	// Signature validity is not enough; the session row must still exist.
	if _, err := g.sessions.FindByUserAndToken(claims.UserID, token); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			g.logger.Error("session lookup failed", zap.Error(err))
		}
		g.unauthorized(resp, "Unauthorized: Invalid session")
		return
	}

	req.SetAttribute(ClaimsAttribute, claims)
	req.SetAttribute(TokenAttribute, token)
	chain.ProcessFilter(req, resp)
}

func (g *Gate) unauthorized(resp *restful.Response, message string) {
	_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]any{
		"success": false,
		"message": message,
	}, restful.MIME_JSON)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// ClaimsFrom returns the claims the gate stored for an authenticated request.
func ClaimsFrom(req *restful.Request) (*auth.Claims, bool) {
	claims, ok := req.Attribute(ClaimsAttribute).(*auth.Claims)
	return claims, ok
}

// TokenFrom returns the raw bearer token for an authenticated request.
func TokenFrom(req *restful.Request) (string, bool) {
	token, ok := req.Attribute(TokenAttribute).(string)
	return token, ok
}
