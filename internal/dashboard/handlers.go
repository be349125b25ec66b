package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rajanjha2004/HotelData/internal/features"
	"github.com/rajanjha2004/HotelData/internal/forecast"
	"github.com/rajanjha2004/HotelData/internal/ingredients"
	"github.com/rajanjha2004/HotelData/internal/models"
	"github.com/rajanjha2004/HotelData/internal/sampledata"
	"github.com/rajanjha2004/HotelData/internal/session"
)

const kindNotFound = "not_found"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// errorResponse maps an error onto a status code and user-facing body
func errorResponse(err error) (int, ErrorResponse) {
	body := ErrorResponse{Error: err.Error(), Kind: models.ErrorKind(err)}
	switch {
	case errors.Is(err, session.ErrNotFound):
		body.Kind = kindNotFound
		return http.StatusNotFound, body
	case errors.Is(err, fs.ErrNotExist):
		body.Kind = models.KindConfig
		return http.StatusBadRequest, body
	}
	switch body.Kind {
	case models.KindSchema, models.KindParse, models.KindInsufficientData:
		return http.StatusUnprocessableEntity, body
	case models.KindConfig:
		return http.StatusBadRequest, body
	}
	return http.StatusInternalServerError, body
}

func respondError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	c.JSON(status, body)
}

// SessionInfo describes a loaded session
type SessionInfo struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	Rows      int            `json:"rows"`
	Skipped   int            `json:"skipped"`
	From      time.Time      `json:"from"`
	To        time.Time      `json:"to"`
	CreatedAt time.Time      `json:"created_at"`
	Params    session.Params `json:"params"`
}

func sessionInfo(sess *session.Session) SessionInfo {
	from, to := sess.Table.Span()
	return SessionInfo{
		ID:        sess.ID,
		Source:    sess.Table.Source,
		Rows:      sess.Table.Len(),
		Skipped:   sess.Table.Skipped,
		From:      from,
		To:        to,
		CreatedAt: sess.CreatedAt,
		Params:    sess.Params,
	}
}

// CreateSessionRequest names a source to load: a path, an s3:// or
// postgres:// URL, or "demo".
type CreateSessionRequest struct {
	Source string `json:"source" binding:"required"`
}

// handleCreateSession loads an upload or a named source into a new session
func (s *Server) handleCreateSession(c *gin.Context) {
	var (
		table   *models.OrderTable
		recipes = s.recipes
		err     error
	)

	start := time.Now()
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		table, err = s.loadUpload(c)
	} else {
		var req CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: models.KindConfig})
			return
		}
		table, recipes, err = s.loadSource(c.Request.Context(), req.Source)
	}
	s.monitor.RecordStage("load", time.Since(start), err)
	if err != nil {
		respondError(c, err)
		return
	}

	sess := s.openSession(table, recipes)
	c.JSON(http.StatusCreated, sessionInfo(sess))
}

func (s *Server) loadUpload(c *gin.Context) (*models.OrderTable, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, &models.ConfigError{Field: "file", Reason: err.Error()}
	}
	limit := s.cfg.Server.MaxUploadMB << 20
	if header.Size > limit {
		return nil, &models.ConfigError{Field: "file", Reason: fmt.Sprintf("upload exceeds %d MB", s.cfg.Server.MaxUploadMB)}
	}
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return s.loader.LoadUpload(header.Filename, data)
}

func (s *Server) loadSource(ctx context.Context, source string) (*models.OrderTable, ingredients.Recipes, error) {
	if source == sampledata.DemoSource {
		table, recipes := sampledata.Demo(s.now(), s.cfg.Data.DemoSeed)
		return table, recipes, nil
	}
	table, err := s.loader.Load(ctx, source)
	return table, s.recipes, err
}

// openSession registers a loaded table and records its size
func (s *Server) openSession(table *models.OrderTable, recipes ingredients.Recipes) *session.Session {
	sess := s.store.Create(table, recipes, s.cfg.SessionParams())
	s.monitor.RecordLoad(table.Source, table.Len(), table.Skipped)
	s.monitor.RecordSessions(s.store.Len())
	log.Printf("Opened session %s with %d order lines from %s", sess.ID, table.Len(), table.Source)
	return sess
}

// OpenSource loads source into a new session, as done at startup for data.source
func (s *Server) OpenSource(ctx context.Context, source string) (*session.Session, error) {
	table, recipes, err := s.loadSource(ctx, source)
	if err != nil {
		return nil, err
	}
	return s.openSession(table, recipes), nil
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionInfo(sess))
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id := c.Param("id")
	if !s.store.Delete(id) {
		respondError(c, fmt.Errorf("%w: %s", session.ErrNotFound, id))
		return
	}
	s.monitor.RecordSessions(s.store.Len())
	c.Status(http.StatusNoContent)
}

// tabContext resolves the session and query parameters shared by the tab endpoints
func (s *Server) tabContext(c *gin.Context) (*session.Session, session.Params, bool) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, session.Params{}, false
	}
	params, err := s.queryParams(c, sess)
	if err != nil {
		respondError(c, err)
		return nil, session.Params{}, false
	}
	return sess, params, true
}

// handleReport runs every stage in one pass
func (s *Server) handleReport(c *gin.Context) {
	sess, params, ok := s.tabContext(c)
	if !ok {
		return
	}
	report, err := s.pipeline.Run(c.Request.Context(), sess, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleOverview(c *gin.Context) {
	sess, params, ok := s.tabContext(c)
	if !ok {
		return
	}
	rows, err := s.pipeline.Rows(sess, params)
	if err != nil {
		respondError(c, err)
		return
	}
	overview, err := s.pipeline.Overview(rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) handleAggregate(c *gin.Context) {
	sess, params, ok := s.tabContext(c)
	if !ok {
		return
	}
	rows, err := s.pipeline.Rows(sess, params)
	if err != nil {
		respondError(c, err)
		return
	}
	series, err := s.pipeline.Aggregate(rows, params.GroupKey, params.Metric)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// forecastView is the state shared by the tabs that need a forecast
type forecastView struct {
	sess   *session.Session
	params session.Params
	rows   []features.Row
	result *models.ForecastResult
}

// forecastFor runs the stages up to the forecast
func (s *Server) forecastFor(c *gin.Context) (*forecastView, bool) {
	sess, params, ok := s.tabContext(c)
	if !ok {
		return nil, false
	}
	rows, err := s.pipeline.Rows(sess, params)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	result, err := s.pipeline.Forecast(rows, params)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return &forecastView{sess: sess, params: params, rows: rows, result: result}, true
}

func (s *Server) handleForecast(c *gin.Context) {
	view, ok := s.forecastFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"forecast": view.result,
		"peaks":    forecast.Peaks(view.result, s.cfg.Notify.PeakCount),
	})
}

func (s *Server) handleStaffing(c *gin.Context) {
	view, ok := s.forecastFor(c)
	if !ok {
		return
	}
	report, err := s.pipeline.Staffing(view.result, view.params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleIngredients(c *gin.Context) {
	view, ok := s.forecastFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.pipeline.Ingredients(view.rows, view.result, view.sess.Recipes, view.params.Inventory))
}

func (s *Server) handleRevenue(c *gin.Context) {
	view, ok := s.forecastFor(c)
	if !ok {
		return
	}
	report, err := s.pipeline.Revenue(view.rows, view.result, view.params.Granularity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
