package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/service"
)

const (
	ctxUserKey   = "auth_user"
	ctxLocaleKey = "locale"
)

// authMiddleware resolves the bearer token to a user and aborts with 401
// when it is missing or invalid
func authMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "authentication required")
			return
		}

		user, err := auth.ValidateToken(c.Request.Context(), token)
		if err != nil || user == nil {
			respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "invalid or expired token")
			return
		}
		if !user.Active {
			respondError(c, http.StatusForbidden, CodeAccountDeactivated, "account is deactivated")
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// optionalAuthMiddleware resolves the bearer token when present but lets
// anonymous requests through
func optionalAuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			if user, err := auth.ValidateToken(c.Request.Context(), token); err == nil && user != nil && user.Active {
				c.Set(ctxUserKey, user)
			}
		}
		c.Next()
	}
}

// staffMiddleware requires a capability on the authenticated user. Must run
// after authMiddleware.
func staffMiddleware(capability models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "authentication required")
			return
		}
		if !user.HasCapability(capability) {
			respondError(c, http.StatusForbidden, CodeForbidden, "insufficient privileges")
			return
		}
		c.Next()
	}
}

// localeMiddleware resolves the response locale: explicit query parameter,
// then Accept-Language, then the authenticated user's preference, then the
// portal default
func localeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := c.Query("locale")
		if !models.SupportedLocales[locale] {
			locale = acceptedLocale(c.GetHeader("Accept-Language"))
		}
		if locale == "" {
			if user := currentUser(c); user != nil && models.SupportedLocales[user.PreferredLocale] {
				locale = user.PreferredLocale
			}
		}
		if locale == "" {
			locale = models.DefaultLocale
		}
		c.Set(ctxLocaleKey, locale)
		c.Next()
	}
}

// acceptedLocale returns the first supported language from an
// Accept-Language header, ignoring quality weights beyond ordering
func acceptedLocale(header string) string {
	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if i := strings.Index(lang, "-"); i > 0 {
			lang = lang[:i]
		}
		lang = strings.ToLower(lang)
		if models.SupportedLocales[lang] {
			return lang
		}
	}
	return ""
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func currentLocale(c *gin.Context) string {
	if v, ok := c.Get(ctxLocaleKey); ok {
		if locale, ok := v.(string); ok {
			return locale
		}
	}
	return models.DefaultLocale
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).
					Str("path", c.Request.URL.Path).
					Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, envelope{
					Success: false,
					Code:    CodeServerError,
					Message: "internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
