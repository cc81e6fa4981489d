package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ridehail/internal/auth"
)

const userContextKey = "auth.user"

// SessionMiddleware authenticates the session cookie against the delegate on
// every request and stores the resolved user in the context.
func SessionMiddleware(delegate auth.Delegate, cookieName string, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := delegate.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthenticated) {
				log.WithError(err).Error("session lookup failed")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by SessionMiddleware.
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*auth.User)
	return user, ok && user != nil
}
