package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"ZoneFlow/internal/domain/models"
	icache "ZoneFlow/internal/service/cache"
	"ZoneFlow/internal/service/metrics"
	"ZoneFlow/internal/service/ratelimit"
	"ZoneFlow/internal/usecase"
	xhttp "ZoneFlow/pkg/http"
	applogger "ZoneFlow/pkg/logger"
)

// ZonesHandler exposes detection runs over HTTP. POST /api/zones/detect runs
// a full detection and returns the annotated zones; GET /api/zones/summary
// returns the run summary only and is cacheable.
type ZonesHandler struct {
	runs     *usecase.ZoneRunUseCase
	cache    icache.BytesCache
	cacheTTL time.Duration
	rl       *ratelimit.Limiter
	l        *applogger.Logger
}

func NewZonesHandler(runs *usecase.ZoneRunUseCase, l *applogger.Logger) *ZonesHandler {
	metrics.Register()
	return &ZonesHandler{runs: runs, rl: ratelimit.New(), cacheTTL: 30 * time.Second, l: l}
}

// SetCache enables summary response caching.
func (h *ZonesHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	if ttl > 0 {
		h.cacheTTL = ttl
	}
}

func (h *ZonesHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/zones")
	g.POST("/detect", h.Detect)
	g.GET("/summary", h.Summary)
}

func (h *ZonesHandler) Detect(c echo.Context) error {
	start := time.Now()
	endpoint := "detect"
	defer func() { metrics.ZonesLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.DetectRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":detect", 5, 2) {
		if h.l != nil {
			h.l.Warn("zones.detect rate_limited", applogger.String("remote", c.RealIP()))
		}
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	res, err := h.runs.Run(c.Request().Context(), *req)
	if err != nil {
		metrics.ZonesErrors.WithLabelValues(endpoint).Inc()
		if h.l != nil {
			h.l.Error("zones.detect run error",
				applogger.String("symbol", req.Symbol),
				applogger.String("strategy", req.Strategy),
				applogger.Error(err),
			)
		}
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ZonesHandler) Summary(c echo.Context) error {
	start := time.Now()
	endpoint := "summary"
	defer func() { metrics.ZonesLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SummaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":summary", 5, 2) {
		if h.l != nil {
			h.l.Warn("zones.summary rate_limited", applogger.String("remote", c.RealIP()))
		}
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	cacheKey := fmt.Sprintf("summary:%s:%s:%s:%d", req.Symbol, req.Strategy, req.IndicatorCol, req.N)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			if h.l != nil {
				h.l.Warn("zones.summary cache_get_error", applogger.Error(err))
			}
		} else if ok {
			if h.l != nil {
				h.l.Debug("zones.summary cache_hit", applogger.String("key", cacheKey))
			}
			var s models.RunSummary
			if err := json.Unmarshal(b, &s); err == nil {
				return xhttp.SuccessResponse(c, s)
			}
		}
	}

	res, err := h.runs.Run(c.Request().Context(), models.DetectRequest{
		Symbol:        req.Symbol,
		N:             req.N,
		Strategy:      req.Strategy,
		IndicatorCol:  req.IndicatorCol,
		MinZoneLength: 1,
	})
	if err != nil {
		metrics.ZonesErrors.WithLabelValues(endpoint).Inc()
		if h.l != nil {
			h.l.Error("zones.summary run error",
				applogger.String("symbol", req.Symbol),
				applogger.Error(err),
			)
		}
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	if h.cache != nil {
		if b, err := json.Marshal(res.Summary); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, h.cacheTTL); err != nil && h.l != nil {
				h.l.Warn("zones.summary cache_set_error", applogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res.Summary)
}

// toAppError maps the domain error taxonomy to HTTP statuses: configuration
// problems are the caller's fault, unusable data is unprocessable, anything
// else is internal.
func toAppError(err error) error {
	switch {
	case models.IsConfigError(err):
		return xhttp.NewAppError("ERR_CONFIG", "", err.Error(), http.StatusBadRequest).WithError(err)
	case models.IsDataError(err):
		return xhttp.NewAppError("ERR_DATA", "", err.Error(), http.StatusUnprocessableEntity).WithError(err)
	default:
		return xhttp.InternalError("detection run failed").WithError(err)
	}
}
