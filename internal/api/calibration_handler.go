package api

import (
	"math"
	"net/http"
	"strconv"

	"apgcal/adapters/report"
	"apgcal/adapters/stats/fit"
	"apgcal/app"
	"apgcal/internal/errors"
	"apgcal/internal/interp"

	"github.com/gin-gonic/gin"
)

// maxGridPoints bounds a single grid or compare request
const maxGridPoints = 100000

// CalibrationHandler exposes a loaded calibration session over HTTP
type CalibrationHandler struct {
	service *app.CalibrationService
	method  interp.Method
	linear  bool
}

// NewCalibrationHandler creates a handler; method is used when a request names none
func NewCalibrationHandler(service *app.CalibrationService, method interp.Method, linear bool) *CalibrationHandler {
	return &CalibrationHandler{service: service, method: method, linear: linear}
}

// Register mounts the calibration routes
func (h *CalibrationHandler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/health", h.GetHealth)
	api.GET("/tables", h.GetTables)
	api.GET("/pressure", h.GetPressure)
	api.GET("/grid", h.GetGrid)
	api.GET("/compare", h.GetCompare)
	api.GET("/fit", h.GetFit)
	api.GET("/report", h.GetReport)
}

// GetHealth reports the loaded session
func (h *CalibrationHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Info())
}

// GetTables returns the stitched tables
func (h *CalibrationHandler) GetTables(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Dataset())
}

// GetPressure interpolates one voltage
func (h *CalibrationHandler) GetPressure(c *gin.Context) {
	raw := c.Query("volts")
	if raw == "" {
		respondError(c, errors.InvalidInput("volts is required"))
		return
	}
	volts, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(volts) {
		respondError(c, errors.InvalidInput("volts must be a finite number"))
		return
	}
	method, err := h.methodParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	torr := h.service.Pressure(volts, method)
	if !finite(torr) {
		respondError(c, errors.InvalidInput("volts is too far outside the table to extrapolate"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"volts":  volts,
		"torr":   torr,
		"method": method,
	})
}

// GetGrid interpolates a regular voltage grid
func (h *CalibrationHandler) GetGrid(c *gin.Context) {
	qs, err := gridParam(c, 0)
	if err != nil {
		respondError(c, err)
		return
	}
	method, err := h.methodParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	torr := h.service.Grid(qs, method)
	if !finite(torr...) {
		respondError(c, errors.InvalidInput("grid reaches too far outside the table to extrapolate"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"method": method,
		"volts":  qs,
		"torr":   torr,
	})
}

// GetCompare runs both search methods over a grid
func (h *CalibrationHandler) GetCompare(c *gin.Context) {
	qs, err := gridParam(c, -1)
	if err != nil {
		respondError(c, err)
		return
	}
	d, err := h.service.Compare(c.Request.Context(), qs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"agree":   d.Agree(),
		"indices": d.Indices,
		"count":   len(qs),
	})
}

// GetFit fits the polynomial model
func (h *CalibrationHandler) GetFit(c *gin.Context) {
	opts, err := fitParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.service.Fit(opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetReport renders the HTML report with the default fit and comparison
func (h *CalibrationHandler) GetReport(c *gin.Context) {
	opts, err := fitParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.service.Fit(opts)
	if err != nil {
		respondError(c, err)
		return
	}
	d, err := h.service.Compare(c.Request.Context(), interp.GridPoints(2.0, -1, 803, 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(h.service.Report(result, d, h.linear)))
}

func (h *CalibrationHandler) methodParam(c *gin.Context) (interp.Method, error) {
	raw := c.Query("method")
	if raw == "" {
		return h.method, nil
	}
	method, err := interp.ParseMethod(raw)
	if err != nil {
		return "", errors.Wrap(err, "invalid method")
	}
	return method, nil
}

// gridParam reads start/first/count/per; the defaults reproduce the
// historical voltage grids
func gridParam(c *gin.Context, defaultFirst int) ([]float64, error) {
	start, err := floatQuery(c, "start", 2.0)
	if err != nil {
		return nil, err
	}
	per, err := floatQuery(c, "per", 100)
	if err != nil {
		return nil, err
	}
	first, err := intQuery(c, "first", defaultFirst)
	if err != nil {
		return nil, err
	}
	count, err := intQuery(c, "count", 801-2*defaultFirst)
	if err != nil {
		return nil, err
	}
	if count < 1 || count > maxGridPoints {
		return nil, errors.InvalidInput("count must be between 1 and " + strconv.Itoa(maxGridPoints))
	}
	if per == 0 {
		return nil, errors.InvalidInput("per cannot be zero")
	}
	return interp.GridPoints(start, first, count, per), nil
}

func fitParam(c *gin.Context) (fit.Options, error) {
	opts := fit.DefaultOptions()
	var err error
	if opts.Order, err = intQuery(c, "order", opts.Order); err != nil {
		return opts, err
	}
	if opts.ChopLeft, err = intQuery(c, "chop_left", 0); err != nil {
		return opts, err
	}
	if opts.ChopRight, err = intQuery(c, "chop_right", 0); err != nil {
		return opts, err
	}
	return opts, nil
}

func floatQuery(c *gin.Context, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(v) {
		return 0, errors.InvalidInput(key + " must be a finite number")
	}
	return v, nil
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput(key + " must be an integer")
	}
	return v, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
