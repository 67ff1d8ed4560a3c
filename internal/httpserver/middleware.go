package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"carbonpay/internal/domain"
	sessionsvc "carbonpay/internal/service/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"
)

type ctxKey string

const (
	sessionCtxKey ctxKey = "session"
	tokenCtxKey   ctxKey = "token"
)

var httpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "carbonpay_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "path", "status"},
)

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func recoverWith(logger *zap.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logger.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requestMetrics records latency labelled by route template, not raw path.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestDuration.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Observe(time.Since(start).Seconds())
	}
}

// rateLimit limits by client IP with an in-memory store. Empty rate disables.
func rateLimit(rateFormatted string) (gin.HandlerFunc, error) {
	if rateFormatted == "" {
		return func(c *gin.Context) { c.Next() }, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), rate)
	return mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
	})), nil
}

// requireSession rejects requests without a live wallet session.
func requireSession(sessions *sessionsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			writeError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		sess, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			writeError(c, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		ctx := context.WithValue(c.Request.Context(), sessionCtxKey, sess)
		ctx = context.WithValue(ctx, tokenCtxKey, token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func sessionFrom(c *gin.Context) *domain.Session {
	sess, _ := c.Request.Context().Value(sessionCtxKey).(*domain.Session)
	return sess
}

func ownerFrom(c *gin.Context) string {
	if sess := sessionFrom(c); sess != nil {
		return sess.OwnerID
	}
	return ""
}

func tokenFrom(c *gin.Context) string {
	token, _ := c.Request.Context().Value(tokenCtxKey).(string)
	return token
}
