package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// NewRelicAttributes tags the transaction started by nrgin with the
// authenticated user and reports handler errors. Without an active
// transaction it does nothing.
func NewRelicAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		txn := nrgin.Transaction(c)
		if txn == nil {
			return
		}

		if user, ok := CurrentUser(c); ok {
			txn.AddAttribute("user_id", user.ID)
		}
		if rideID := c.Param("id"); rideID != "" {
			txn.AddAttribute("resource_id", rideID)
		}
		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
