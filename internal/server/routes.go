// internal/server/routes.go
package server

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "puppy-admin/internal/common/errors"
	"puppy-admin/internal/common/metrics"
	"puppy-admin/internal/models"
)

const sessionKey = "session"

func (s *Server) registerRoutes() {
	s.echo.Use(s.requestLogger())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.BodyLimit("1M"))

	s.registerHealthRoutes()

	admin := s.echo.Group("/admin", s.requireSession)
	admin.DELETE("/session", s.handleSignOut)

	s.registerScreenRoutes(admin.Group("/waitlist/screens"))
	s.registerCatalogRoutes(admin)
}

// requestLogger logs every request and feeds the request metrics. Errors go
// through the error handler first so the logged status is the one written.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRoutePath: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			route := v.RoutePath
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(v.Status)
			metrics.HTTPRequestsTotal.WithLabelValues(v.Method, route, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(v.Method, route).Observe(v.Latency.Seconds())
			s.obs.RecordRequest(c.Request().Context(), route, v.Status, v.Latency)

			fields := map[string]interface{}{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			}
			if v.Error != nil {
				fields["error"] = v.Error.Error()
			}
			s.log.Debug("Request", fields)
			return nil
		},
	})
}

// requireSession resolves the bearer token to a live admin session.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return apperrors.NewUnauthenticatedError("missing bearer token")
		}
		sess, err := s.sessions.Get(c.Request().Context(), token)
		if err != nil {
			return sessionError(err)
		}
		c.Set(sessionKey, sess)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func currentSession(c echo.Context) *models.AdminSession {
	sess, _ := c.Get(sessionKey).(*models.AdminSession)
	return sess
}
