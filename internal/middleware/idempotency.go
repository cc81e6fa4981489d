package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	redisstore "ridehail/internal/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	inFlightTTL       = 30 * time.Second
)

// bodyRecorder tees the response body so it can be stored for replay.
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// IdempotencyMiddleware replays the stored response of a POST, PUT or PATCH
// retried with the same Idempotency-Key. Keys are scoped to the caller and
// route. Only 2xx responses are stored, so a rejected request can be retried.
// A duplicate arriving while the first is still running gets 409. A nil store
// disables the middleware.
func IdempotencyMiddleware(store redisstore.IdempotencyStoreInterface, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || !isMutating(c.Request.Method) {
			c.Next()
			return
		}
		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		scoped := c.Request.Method + ":" + c.Request.URL.Path + ":" + key
		if user, ok := CurrentUser(c); ok {
			scoped = user.ID + ":" + scoped
		}

		reserved, err := store.Reserve(ctx, scoped, inFlightTTL)
		if err != nil {
			log.WithError(err).Warn("idempotency store unavailable")
			c.Next()
			return
		}

		if !reserved {
			stored, err := store.Get(ctx, scoped)
			switch {
			case errors.Is(err, redisstore.ErrReplayPending):
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			case err != nil:
				log.WithError(err).Warn("idempotency replay failed")
				c.Next()
			default:
				c.Header("Idempotent-Replayed", "true")
				c.Data(stored.Status, stored.ContentType, stored.Body)
				c.Abort()
			}
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			err = store.Complete(ctx, scoped, &redisstore.StoredResponse{
				Status:      status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}, idempotencyTTL)
		} else {
			err = store.Release(ctx, scoped)
		}
		if err != nil {
			log.WithError(err).Warn("failed to record idempotent response")
		}
	}
}

func isMutating(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}
