package server

import (
	"bytes"
	"errors"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calcexpr"
	"github.com/zephyrtronium/calcexpr/internal/history"
	"github.com/zephyrtronium/calcexpr/internal/plot"
)

// maxImport bounds the size of a history import body.
const maxImport = 1 << 20

// EvaluateRequest is the body of POST /v1/evaluate.
type EvaluateRequest struct {
	Expression string              `json:"expression"`
	AngleMode  *calcexpr.AngleMode `json:"angleMode"`
	Vars       map[string]float64  `json:"vars"`
	Record     bool                `json:"record"`
}

// EvaluateResponse is the result of a successful evaluation. Result is
// omitted when it is not finite; Formatted is always present.
type EvaluateResponse struct {
	Expression string             `json:"expression"`
	Result     *float64           `json:"result,omitempty"`
	Formatted  string             `json:"formatted"`
	AngleMode  calcexpr.AngleMode `json:"angleMode"`
	ID         string             `json:"id,omitempty"`
}

// PlotRequest is the body of POST /v1/plot. Missing bounds and width take
// the configured defaults.
type PlotRequest struct {
	Expression string              `json:"expression" binding:"required"`
	AngleMode  *calcexpr.AngleMode `json:"angleMode"`
	XMin       *float64            `json:"xMin"`
	XMax       *float64            `json:"xMax"`
	Width      int                 `json:"width"`
}

// PlotResponse is the sampled curve.
type PlotResponse struct {
	Expression string             `json:"expression"`
	AngleMode  calcexpr.AngleMode `json:"angleMode"`
	Range      plot.Range         `json:"range"`
	Step       float64            `json:"step"`
	*plot.Curve
}

type valueRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

func badRequest(c *gin.Context, err error) {
	abort(c, http.StatusBadRequest, "bad_request", err.Error())
}

// angle picks the angle mode for a request: the request's own, else the
// stored setting, else the configured default.
func (s *Server) angle(req *calcexpr.AngleMode) calcexpr.AngleMode {
	if req != nil {
		return *req
	}
	return s.store.AngleMode(s.cfg.Calc.Angle)
}

// context builds an evaluation context with stored variables and then the
// request's variables bound.
func (s *Server) context(mode calcexpr.AngleMode, vars map[string]float64) *calcexpr.Context {
	return calcexpr.NewContext(
		calcexpr.Angle(mode),
		calcexpr.SetVars(s.store.Variables()),
		calcexpr.SetVars(vars),
	)
}

func (s *Server) evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	mode := s.angle(req.AngleMode)
	ctx := s.context(mode, req.Vars)

	start := time.Now()
	r, err := ctx.Evaluate(req.Expression, s.parse)
	s.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.Evaluations.WithLabelValues(Code(err)).Inc()
		evalFailed(c, err)
		return
	}
	s.metrics.Evaluations.WithLabelValues("ok").Inc()

	resp := EvaluateResponse{
		Expression: req.Expression,
		Formatted:  calcexpr.Format(r),
		AngleMode:  mode,
	}
	finite := !math.IsNaN(r) && !math.IsInf(r, 0)
	if finite {
		resp.Result = &r
	}
	if req.Record && finite && strings.TrimSpace(req.Expression) != "" {
		e, err := s.store.Add(req.Expression, r)
		if err != nil {
			s.storageFailed(c, "record history", err)
			return
		}
		resp.ID = e.ID
		s.metrics.HistoryEntries.Set(float64(len(s.store.List())))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) plot(c *gin.Context) {
	var req PlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r := plot.Range{XMin: s.cfg.Plot.XMin, XMax: s.cfg.Plot.XMax, Width: s.cfg.Plot.Width}
	if req.XMin != nil {
		r.XMin = *req.XMin
	}
	if req.XMax != nil {
		r.XMax = *req.XMax
	}
	if req.Width != 0 {
		r.Width = req.Width
	}
	if r.Width > s.cfg.Plot.MaxWidth {
		abort(c, http.StatusBadRequest, "bad_request", "plot width exceeds maximum")
		return
	}
	if err := r.Validate(); err != nil {
		badRequest(c, err)
		return
	}
	e, err := calcexpr.Parse(req.Expression, s.parse)
	if err != nil {
		evalFailed(c, err)
		return
	}
	mode := s.angle(req.AngleMode)
	curve, err := plot.Sample(e, s.context(mode, nil), r)
	if err != nil {
		badRequest(c, err)
		return
	}
	s.metrics.PlotSamples.Observe(float64(curve.Samples))
	c.JSON(http.StatusOK, PlotResponse{
		Expression: req.Expression,
		AngleMode:  mode,
		Range:      r,
		Step:       r.Step(),
		Curve:      curve,
	})
}

func (s *Server) listHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": s.store.List()})
}

func (s *Server) clearHistory(c *gin.Context) {
	if err := s.store.Clear(); err != nil {
		s.storageFailed(c, "clear history", err)
		return
	}
	s.metrics.HistoryEntries.Set(0)
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteHistory(c *gin.Context) {
	err := s.store.Delete(c.Param("id"))
	switch {
	case errors.Is(err, history.ErrNotFound):
		abort(c, http.StatusNotFound, "not_found", err.Error())
		return
	case err != nil:
		s.storageFailed(c, "delete history entry", err)
		return
	}
	s.metrics.HistoryEntries.Set(float64(len(s.store.List())))
	c.Status(http.StatusNoContent)
}

func (s *Server) exportHistory(c *gin.Context) {
	var b bytes.Buffer
	if err := s.store.ExportText(&b); err != nil {
		s.storageFailed(c, "export history", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="calculator-history.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", b.Bytes())
}

func (s *Server) importHistory(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImport))
	if err != nil {
		badRequest(c, err)
		return
	}
	n, err := s.store.ImportJSON(data)
	if err != nil {
		badRequest(c, err)
		return
	}
	s.metrics.HistoryEntries.Set(float64(n))
	s.log.Info("history imported", zap.Int("entries", n), zap.String("client", c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{"imported": n})
}

// settings returns the stored settings with defaults filled in.
func (s *Server) settings() map[string]string {
	m := s.store.Settings()
	if _, ok := m[history.SettingAngleMode]; !ok {
		m[history.SettingAngleMode] = s.cfg.Calc.Angle.String()
	}
	if _, ok := m[history.SettingTheme]; !ok {
		m[history.SettingTheme] = "light"
	}
	return m
}

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": s.settings()})
}

func (s *Server) putSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if v, ok := req[history.SettingAngleMode]; ok {
		if _, err := calcexpr.ParseAngleMode(v); err != nil {
			badRequest(c, err)
			return
		}
	}
	for k, v := range req {
		if err := s.store.SetSetting(k, v); err != nil {
			s.storageFailed(c, "save settings", err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"settings": s.settings()})
}

func (s *Server) getMemory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"memory": s.store.Memory()})
}

func (s *Server) putMemory(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.store.SetMemory(*req.Value); err != nil {
		s.storageFailed(c, "save memory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"memory": *req.Value})
}

func (s *Server) getVariables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"variables": s.store.Variables()})
}

func (s *Server) putVariable(c *gin.Context) {
	name := c.Param("name")
	if !history.ValidName(name) {
		abort(c, http.StatusBadRequest, "invalid_name", "cannot bind variable "+name)
		return
	}
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.store.SetVariable(name, *req.Value); err != nil {
		s.storageFailed(c, "save variable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "value": *req.Value})
}

func (s *Server) deleteVariable(c *gin.Context) {
	err := s.store.DeleteVariable(c.Param("name"))
	switch {
	case errors.Is(err, history.ErrNotFound):
		abort(c, http.StatusNotFound, "not_found", "no variable "+c.Param("name"))
		return
	case err != nil:
		s.storageFailed(c, "delete variable", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) storageFailed(c *gin.Context, op string, err error) {
	s.log.Error("storage failure", zap.String("op", op), zap.Error(err))
	abort(c, http.StatusInternalServerError, "storage", "couldn't "+op)
}
