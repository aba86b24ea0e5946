package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	models "github.com/xsteinzy/betting-analysis-system/internal/domain/models"
	domrepo "github.com/xsteinzy/betting-analysis-system/internal/domain/repository"
	"github.com/xsteinzy/betting-analysis-system/internal/service/cache"
	"github.com/xsteinzy/betting-analysis-system/internal/service/ratelimit"
	"github.com/xsteinzy/betting-analysis-system/internal/services/stats"
	"github.com/xsteinzy/betting-analysis-system/internal/usecase"
	xhttp "github.com/xsteinzy/betting-analysis-system/pkg/http"
	xlogger "github.com/xsteinzy/betting-analysis-system/pkg/logger"
	"github.com/xsteinzy/betting-analysis-system/pkg/util"
)

// BacktestsEchoHandler exposes saved backtest results and on-demand runs.
type BacktestsEchoHandler struct {
	logger       *xlogger.Logger
	orchestrator *usecase.BacktestOrchestrator
	results      domrepo.ResultStore
	cache        cache.BytesCache
	limiter      *ratelimit.Limiter
	listTTL      time.Duration
	summaryTTL   time.Duration
}

// CacheTTLs configures read-path caching.
type CacheTTLs struct {
	List    time.Duration
	Summary time.Duration
}

func NewBacktestsEchoHandler(
	logger *xlogger.Logger,
	orchestrator *usecase.BacktestOrchestrator,
	results domrepo.ResultStore,
	byteCache cache.BytesCache,
	ttls CacheTTLs,
) *BacktestsEchoHandler {
	if ttls.List <= 0 {
		ttls.List = 30 * time.Second
	}
	if ttls.Summary <= 0 {
		ttls.Summary = time.Minute
	}
	return &BacktestsEchoHandler{
		logger:       logger,
		orchestrator: orchestrator,
		results:      results,
		cache:        byteCache,
		limiter:      ratelimit.New(),
		listTTL:      ttls.List,
		summaryTTL:   ttls.Summary,
	}
}

func (h *BacktestsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/backtests", h.Run)
	g.GET("/backtests", h.List)
	g.GET("/backtests/latest", h.Latest)
	g.GET("/backtests/:id", h.Get)
	g.GET("/backtests/:id/insights", h.Insights)
	g.GET("/backtests/:id/chart", h.Chart)
	g.GET("/summary", h.Summary)
	g.GET("/strategies/best", h.Best)
	g.GET("/strategies/:strategy/evolution", h.Evolution)
}

// Run executes a backtest synchronously. Runs are expensive, so the endpoint
// is rate-limited per client IP.
func (h *BacktestsEchoHandler) Run(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), 5, 0.2) {
		return xhttp.DataResponse(c, 429, "too many backtest requests")
	}

	req := &models.RunBacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	params, err := runParamsFromRequest(req)
	if err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	result, err := h.orchestrator.Run(c.Request().Context(), params, req.Save)
	if err != nil && !usecase.IsPersistence(err) {
		var ve *usecase.ValidationError
		if errors.As(err, &ve) {
			return xhttp.BadRequestResponse(c, ve.Error())
		}
		h.logger.Error("backtest run error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if err != nil {
		// Computed but not saved; surface the result with a warning flag.
		h.logger.Warn("backtest computed but not persisted", xlogger.Error(err))
		return xhttp.DataResponse(c, 200, echo.Map{"result": result, "saved": false})
	}
	return xhttp.CreatedResponse(c, result)
}

func (h *BacktestsEchoHandler) List(c echo.Context) error {
	req := &models.ListBacktestsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := "backtests:list:" + req.Strategy + ":" + req.Sport + ":" + strconv.Itoa(req.Limit)
	if b, ok := h.cached(key); ok {
		return h.rawList(c, b)
	}

	rows, err := h.results.List(c.Request().Context(),
		models.StrategyKind(req.Strategy), models.Sport(req.Sport), req.Limit)
	if err != nil {
		h.logger.Error("list backtests error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	// Cache the full envelope payload so hits and misses share one shape.
	payload := &xhttp.ListDataResponse{Rows: rows, Total: int64(len(rows))}
	h.store(key, payload, h.listTTL)
	return xhttp.SuccessResponse(c, payload)
}

// Latest serves the most recently saved run.
func (h *BacktestsEchoHandler) Latest(c echo.Context) error {
	result, err := h.results.Latest(c.Request().Context())
	if err != nil {
		h.logger.Error("latest backtest error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if result == nil {
		return xhttp.NotFoundResponse(c, "no backtests saved yet")
	}
	return xhttp.SuccessResponse(c, result)
}

func (h *BacktestsEchoHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return xhttp.BadRequestResponse(c, "id must be an integer")
	}
	result, err := h.results.Get(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("get backtest error", xlogger.Error(err), xlogger.Int64("id", id))
		return xhttp.AppErrorResponse(c, err)
	}
	if result == nil {
		return xhttp.NotFoundResponse(c, "backtest not found")
	}
	return xhttp.SuccessResponse(c, result)
}

func (h *BacktestsEchoHandler) Insights(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return xhttp.BadRequestResponse(c, "id must be an integer")
	}
	result, err := h.results.Get(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("get insights error", xlogger.Error(err), xlogger.Int64("id", id))
		return xhttp.AppErrorResponse(c, err)
	}
	if result == nil {
		return xhttp.NotFoundResponse(c, "backtest not found")
	}
	return xhttp.SuccessResponse(c, result.Insights)
}

// Chart serves one equity-curve series of a saved run.
func (h *BacktestsEchoHandler) Chart(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return xhttp.BadRequestResponse(c, "id must be an integer")
	}
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	result, err := h.results.Get(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("chart error", xlogger.Error(err), xlogger.Int64("id", id))
		return xhttp.AppErrorResponse(c, err)
	}
	if result == nil {
		return xhttp.NotFoundResponse(c, "backtest not found")
	}
	return xhttp.SuccessResponse(c, chartSeries(req.Type, result.Performance.Daily))
}

func (h *BacktestsEchoHandler) Summary(c echo.Context) error {
	key := "backtests:summary"
	if b, ok := h.cached(key); ok {
		return h.rawList(c, b)
	}
	sum, err := h.results.Summary(c.Request().Context())
	if err != nil {
		h.logger.Error("summary error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(key, sum, h.summaryTTL)
	return xhttp.SuccessResponse(c, sum)
}

func (h *BacktestsEchoHandler) Best(c echo.Context) error {
	req := &models.BestStrategiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.results.BestStrategies(c.Request().Context(), req.Metric, req.Limit)
	if err != nil {
		h.logger.Error("best strategies error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *BacktestsEchoHandler) Evolution(c echo.Context) error {
	strategy := models.StrategyKind(c.Param("strategy"))
	if !models.ValidStrategyKind(strategy) {
		return xhttp.BadRequestResponse(c, "unknown strategy: "+string(strategy))
	}
	rows, err := h.results.Evolution(c.Request().Context(), strategy)
	if err != nil {
		h.logger.Error("evolution error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *BacktestsEchoHandler) cached(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("cache read error", xlogger.Error(err), xlogger.String("key", key))
		return nil, false
	}
	return b, ok
}

func (h *BacktestsEchoHandler) store(key string, v interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, ttl); err != nil {
		h.logger.Warn("cache write error", xlogger.Error(err), xlogger.String("key", key))
	}
}

// rawList replays a cached payload without re-encoding it.
func (h *BacktestsEchoHandler) rawList(c echo.Context, b []byte) error {
	var v json.RawMessage = b
	return xhttp.SuccessResponse(c, v)
}

func runParamsFromRequest(req *models.RunBacktestRequest) (models.RunParams, error) {
	start, err := util.ParseDate(req.StartDate)
	if err != nil {
		return models.RunParams{}, err
	}
	end, err := util.ParseDate(req.EndDate)
	if err != nil {
		return models.RunParams{}, err
	}
	sport := models.Sport(req.Sport)
	if req.Sport == "both" {
		sport = ""
	}
	sizes := req.EntrySizes
	if len(sizes) == 0 {
		sizes = []int{2, 3, 4, 5}
	}
	return models.RunParams{
		Strategy:            models.StrategyKind(req.Strategy),
		StartDate:           start,
		EndDate:             end,
		Sport:               sport,
		ConfidenceThreshold: req.ConfidenceThreshold,
		EVThreshold:         req.EVThreshold,
		PropTypes:           req.PropTypes,
		EntrySizes:          sizes,
		StartingBankroll:    req.StartingBankroll,
		BetSize:             req.BetSize,
		StakingPolicy:       models.StakingPolicy(req.StakingPolicy),
	}, nil
}

// winRateWindow is the trailing span, in daily rows, of the win rate chart.
const winRateWindow = 10

// chartSeries projects the daily equity curve into one (date, value) series.
// The win rate series is smoothed over a trailing window and starts only once
// the window has filled.
func chartSeries(kind string, daily []models.DailyResult) []models.ChartPoint {
	if kind == "win_rate" {
		return rollingWinRate(daily, winRateWindow)
	}
	points := make([]models.ChartPoint, 0, len(daily))
	for _, d := range daily {
		p := models.ChartPoint{Date: d.Date}
		switch kind {
		case "bankroll":
			p.Value = d.Bankroll
		default: // cumulative_pl
			p.Value = d.CumulativePnL
		}
		points = append(points, p)
	}
	return points
}

func rollingWinRate(daily []models.DailyResult, window int) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(daily))
	for i := range daily {
		if i < window-1 {
			continue
		}
		var bets, wins int
		for _, d := range daily[i-window+1 : i+1] {
			bets += d.Bets
			wins += d.Wins
		}
		var rate float64
		if bets > 0 {
			rate = float64(wins) / float64(bets) * 100
		}
		points = append(points, models.ChartPoint{Date: daily[i].Date, Value: stats.Round2(rate)})
	}
	return points
}
