// internal/server/handlers_screens.go
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "puppy-admin/internal/common/errors"
	"puppy-admin/internal/common/validation"
	"puppy-admin/internal/models"
	"puppy-admin/internal/notify"
	"puppy-admin/internal/screens"
	"puppy-admin/internal/waitlist"
)

type screenResponse struct {
	ScreenID string        `json:"screen_id"`
	View     waitlist.View `json:"view"`
}

type statusResponse struct {
	ScreenID      string                   `json:"screen_id"`
	Notifications []models.Notification    `json:"notifications"`
	View          waitlist.View            `json:"view"`
	Error         *apperrors.StandardError `json:"error,omitempty"`
}

type columnRequest struct {
	Visible bool `json:"visible"`
}

type selectionRequest struct {
	ID        *string `json:"id"`
	AllOnPage bool    `json:"all_on_page"`
	Selected  bool    `json:"selected"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) registerScreenRoutes(g *echo.Group) {
	g.POST("", s.handleOpenScreen)
	g.GET("/:screen", s.handleGetScreen)
	g.DELETE("/:screen", s.handleCloseScreen)
	g.POST("/:screen/reload", s.handleReloadScreen)
	g.PUT("/:screen/columns/:column", s.handleSetColumn)
	g.POST("/:screen/sort/:column", s.handleToggleSort)
	g.PUT("/:screen/selection", s.handleSelection)
	g.POST("/:screen/page/next", s.handleNextPage)
	g.POST("/:screen/page/previous", s.handlePreviousPage)
	g.POST("/:screen/detail/:id", s.handleOpenDetail)
	g.DELETE("/:screen/detail/:id", s.handleCloseDetail)
	g.POST("/:screen/applications/:id/status", s.handleSetStatus)
}

// handleOpenScreen activates a screen and loads it. A failed load is not an
// HTTP error: the view carries the error state.
func (s *Server) handleOpenScreen(c echo.Context) error {
	ctx := c.Request().Context()
	screen, err := s.screens.Open(ctx, currentSession(c))
	if err != nil {
		return s.screenError("", err)
	}

	if err := screen.Controller.Load(ctx); err != nil && !isLoadFailure(err) {
		return s.screenError(screen.ID, err)
	}
	return c.JSON(http.StatusCreated, screenResponse{ScreenID: screen.ID, View: screen.Controller.View()})
}

func (s *Server) handleReloadScreen(c echo.Context) error {
	screen, err := s.screen(c)
	if err != nil {
		return err
	}
	if err := screen.Controller.Load(c.Request().Context()); err != nil && !isLoadFailure(err) {
		return s.screenError(screen.ID, err)
	}
	return s.renderScreen(c, screen)
}

// handleGetScreen applies q, sort, dir and page (zero based) before deriving
// the view. An empty sort clears it.
func (s *Server) handleGetScreen(c echo.Context) error {
	screen, err := s.screen(c)
	if err != nil {
		return err
	}
	ctrl := screen.Controller
	params := c.QueryParams()

	if params.Has("q") {
		ctrl.SetFilter(params.Get("q"))
	}
	if params.Has("sort") {
		if raw := params.Get("sort"); raw == "" {
			ctrl.ClearSort()
		} else {
			col, err := waitlist.ParseColumn(raw)
			if err != nil {
				return s.screenError(screen.ID, err)
			}
			if err := ctrl.SetSort(col, params.Get("dir") == "desc"); err != nil {
				return s.screenError(screen.ID, err)
			}
		}
	}
	if params.Has("page") {
		index, err := strconv.Atoi(params.Get("page"))
		if err != nil || index < 0 {
			return apperrors.NewInvalidRequestError("page must be a non-negative integer")
		}
		ctrl.GoToPage(index)
	}
	return s.renderScreen(c, screen)
}

func (s *Server) handleCloseScreen(c echo.Context) error {
	id := c.Param("screen")
	if err := s.screens.Close(c.Request().Context(), id, currentSession(c).Email); err != nil {
		return s.screenError(id, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSetColumn(c echo.Context) error {
	screen, err := s.screen(c)
	if err != nil {
		return err
	}
	var req columnRequest
	if err := s.decode(c, validation.SchemaColumn, &req); err != nil {
		return err
	}
	col, err := waitlist.ParseColumn(c.Param("column"))
	if err != nil {
		return s.screenError(screen.ID, err)
	}
	if err := screen.Controller.SetColumnVisible(col, req.Visible); err != nil {
		return s.screenError(screen.ID, err)
	}
	return s.renderScreen(c, screen)
}

func (s *Server) handleToggleSort(c echo.Context) error {
	screen, err := s.screen(c)
	if err != nil {
		return err
	}
	col, err := waitlist.ParseColumn(c.Param("column"))
	if err != nil {
		return s.screenError(screen.ID, err)
	}
	if err := screen.Controller.ToggleSort(col); err != nil {
		return s.screenError(screen.ID, err)
	}
	return s.renderScreen(c, screen)
}

func (s *Server) handleSelection(c echo.Context) error {
	screen, err := s.screen(c)
	if err != nil {
		return err
	}
	var req selectionRequest
	if err := s.decode(c, validation.SchemaSelection, &req); err != nil {
		return err
	}
	if req.ID != nil {
		err = screen.Controller.SelectRow(*req.ID, req.Selected)
	} else {
		err = screen.Controller.SelectPage(req.Selected)
	}
	if err != nil {
		return s.screenError(screen.ID, err)
	}
	return s.renderScreen(c, screen)
}

func (s *Server) handleNextPage(c echo.Context) error {
	screen, err := s.screen(c)
	if err != nil {
		return err
	}
	screen.Controller.NextPage()
	return s.renderScreen(c, screen)
}

func (s *Server) handlePreviousPage(c echo.Context) error {
	screen, err := s.screen(c)
	if err != nil {
		return err
	}
	screen.Controller.PreviousPage()
	return s.renderScreen(c, screen)
}

func (s *Server) handleOpenDetail(c echo.Context) error {
	screen, err := s.screen(c)
	if err != nil {
		return err
	}
	if err := screen.Controller.OpenDetail(c.Param("id")); err != nil {
		return s.screenError(screen.ID, err)
	}
	return s.renderScreen(c, screen)
}

func (s *Server) handleCloseDetail(c echo.Context) error {
	screen, err := s.screen(c)
	if err != nil {
		return err
	}
	screen.Controller.CloseDetail()
	return s.renderScreen(c, screen)
}

// handleSetStatus returns the notifications the action emitted alongside the
// refreshed view. A rejected remote write keeps the local state and answers
// with the error notification and a 502.
func (s *Server) handleSetStatus(c echo.Context) error {
	screen, err := s.screen(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := s.decode(c, validation.SchemaStatus, &req); err != nil {
		return err
	}
	status, err := models.ParseApplicationStatus(req.Status)
	if err != nil {
		return apperrors.NewInvalidStatusError(req.Status)
	}

	// notifications are collected per request so concurrent actions on one
	// screen each get their own
	calls := notify.NewRecorder(s.clock)
	ctx := waitlist.WithNotifier(c.Request().Context(), calls)
	err = screen.Controller.SetStatus(ctx, c.Param("id"), status)
	if err != nil && !isUpdateFailure(err) {
		return s.screenError(screen.ID, err)
	}

	resp := statusResponse{
		ScreenID:      screen.ID,
		Notifications: calls.Drain(),
		View:          screen.Controller.View(),
	}
	code := http.StatusOK
	if err != nil {
		resp.Error = apperrors.AsStandard(s.screenError(screen.ID, err))
		code = apperrors.HTTPStatus(resp.Error.Code)
	}
	return c.JSON(code, resp)
}

func (s *Server) screen(c echo.Context) (*screens.Screen, error) {
	id := c.Param("screen")
	screen, err := s.screens.Get(c.Request().Context(), id, currentSession(c).Email)
	if err != nil {
		return nil, s.screenError(id, err)
	}
	return screen, nil
}

func (s *Server) renderScreen(c echo.Context, screen *screens.Screen) error {
	if screen.Controller.TornDown() {
		return apperrors.NewScreenClosedError(screen.ID)
	}
	return c.JSON(http.StatusOK, screenResponse{ScreenID: screen.ID, View: screen.Controller.View()})
}

// decode validates the raw body against schema before unmarshalling it.
func (s *Server) decode(c echo.Context, schema validation.Schema, dst interface{}) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperrors.NewInvalidRequestError("unreadable request body")
	}
	result, err := s.validator.Validate(schema, body)
	if err != nil {
		return apperrors.NewInvalidRequestError("request body is not valid JSON")
	}
	if !result.Valid {
		return apperrors.NewValidationError("request body failed validation", result.Problems())
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	return nil
}

func isLoadFailure(err error) bool {
	return errors.Is(err, waitlist.ErrLoadFailure)
}

func isUpdateFailure(err error) bool {
	return errors.Is(err, waitlist.ErrUpdateFailure)
}
