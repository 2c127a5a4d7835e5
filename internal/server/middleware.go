package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sadhanahub/sadhana/internal/tenantctx"
)

const (
	// HeaderAuthCode identifies the tenant on every scoped request. The
	// excluded UI caches it for the session lifetime.
	HeaderAuthCode = "X-Auth-Code"

	// HeaderAdminPassword elevates a request with the admin capability.
	HeaderAdminPassword = "X-Admin-Password"
)

// TenantRequired resolves the auth code header to a tenant and scopes the
// request context to it. Every roster/ledger/report route sits behind this.
func (s *Server) TenantRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authCode := strings.TrimSpace(c.GetHeader(HeaderAuthCode))
		if authCode == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		tenant, err := s.tenantSvc.Authenticate(c.Request.Context(), authCode)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := tenantctx.WithTenantID(c.Request.Context(), int64(tenant.ID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AdminRequired verifies the admin credential and grants the admin
// capability to the request context. Core services refuse mutating work
// without the capability, so this boundary is the only way in.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		pass := c.GetHeader(HeaderAdminPassword)
		if strings.TrimSpace(pass) == "" {
			AbortWithError(c, ErrForbidden)
			return
		}

		ok, err := s.tenantSvc.VerifyAdmin(c.Request.Context(), pass)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !ok {
			AbortWithError(c, ErrForbidden)
			return
		}

		ctx := tenantctx.WithAdmin(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
