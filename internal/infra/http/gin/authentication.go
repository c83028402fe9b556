package ginserver

import (
	"context"
	"log/slog"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/security"
)

const principalContextKey = "staybook.principal"

var errNoToken = apperr.Unauthorized("not authorized, no token")

// Authenticator resolves a bearer token to the requesting principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domainuser.Principal, error)
}

// AuthMiddleware attaches the principal of a valid bearer token. Requests
// without a token continue anonymously; a token that fails verification is
// rejected with 401.
type AuthMiddleware struct {
	Service Authenticator
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token, ok := security.ExtractBearer(c.GetHeader("Authorization"))
	if !ok || m.Service == nil {
		c.Next()
		return
	}
	p, err := m.Service.Authenticate(c.Request.Context(), token)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		writeError(c, m.Logger, err)
		c.Abort()
		return
	}
	c.Set(principalContextKey, p)
	c.Next()
}

// requireAuth stops anonymous requests on protected routes before the body
// is read.
func requireAuth(c *gin.Context) {
	if currentPrincipal(c).Anonymous() {
		writeError(c, nil, errNoToken)
		c.Abort()
		return
	}
	c.Next()
}

// currentPrincipal returns the authenticated principal, or the anonymous
// zero value. Handlers pass it on and let the application layer decide.
func currentPrincipal(c *gin.Context) domainuser.Principal {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return domainuser.Principal{}
	}
	p, _ := val.(domainuser.Principal)
	return p
}
