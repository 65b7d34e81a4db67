package middleware

import (
	"context"

	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// capabilityKey is the key used to store the caller's capability.
const capabilityKey = contextKey("capability")

// WithCapability returns a copy of ctx carrying the caller's capability.
func WithCapability(ctx context.Context, capability domain.Capability) context.Context {
	return context.WithValue(ctx, capabilityKey, capability)
}

// GetCapabilityFromContext retrieves the authenticated caller's capability.
// It returns the capability and a boolean indicating if it was found.
func GetCapabilityFromContext(c *gin.Context) (domain.Capability, bool) {
	if val, exists := c.Get(string(capabilityKey)); exists {
		capability, ok := val.(domain.Capability)
		return capability, ok
	}
	// check in the request context as well
	capability, ok := c.Request.Context().Value(capabilityKey).(domain.Capability)
	return capability, ok
}
