// internal/server/handlers_catalog.go
package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "puppy-admin/internal/common/errors"
	"puppy-admin/internal/common/validation"
	"puppy-admin/internal/models"
)

func (s *Server) registerCatalogRoutes(g *echo.Group) {
	g.GET("/puppies", s.handleListPuppies)
	g.POST("/puppies", s.handleCreatePuppy)
	g.GET("/testimonials", s.handleListTestimonials)
	g.POST("/testimonials", s.handleCreateTestimonial)
}

func (s *Server) handleListPuppies(c echo.Context) error {
	puppies, err := s.puppies.List(c.Request().Context())
	if err != nil {
		return storeError("puppies", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"puppies": puppies})
}

func (s *Server) handleCreatePuppy(c echo.Context) error {
	var in models.NewPuppy
	if err := s.decode(c, validation.SchemaPuppy, &in); err != nil {
		return err
	}
	// the schema only checks the shape of the date
	if _, err := models.ParseDate(in.AvailableDate); err != nil {
		return apperrors.NewValidationError("request body failed validation",
			[]string{"available_date: not a calendar date"})
	}

	p, err := s.puppies.Create(c.Request().Context(), in)
	if err != nil {
		return insertError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) handleListTestimonials(c echo.Context) error {
	testimonials, err := s.testimonials.List(c.Request().Context())
	if err != nil {
		return storeError("testimonials", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"testimonials": testimonials})
}

func (s *Server) handleCreateTestimonial(c echo.Context) error {
	var in models.NewTestimonial
	if err := s.decode(c, validation.SchemaTestimonial, &in); err != nil {
		return err
	}
	t, err := s.testimonials.Create(c.Request().Context(), in)
	if err != nil {
		return insertError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) handleSignOut(c echo.Context) error {
	sess := currentSession(c)
	if err := s.sessions.Delete(c.Request().Context(), sess.Token); err != nil {
		return sessionError(err)
	}
	s.log.Info("Admin signed out", map[string]interface{}{"email": sess.Email})
	return c.NoContent(http.StatusNoContent)
}
