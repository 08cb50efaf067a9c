package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/business/countries"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/logger"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/telemetry"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/render"
	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
)

// ClientIDHeader lets a caller scope search supersession to its own session.
// Without it the client IP is used.
const ClientIDHeader = "X-Client-ID"

// Router wires HTTP handlers.
type Router struct {
	stats *countries.Service
	log   *logger.Logger
}

func NewRouter(stats *countries.Service, log *logger.Logger, allowedOrigins string) *gin.Engine {
	r := &Router{stats: stats, log: log.With("component", "http")}

	router := gin.New()
	router.Use(
		otelgin.Middleware(telemetry.ServiceName),
		r.requestLogger(),
		gin.Recovery(),
		corsMiddleware(allowedOrigins),
	)
	router.SetHTMLTemplate(render.PageTemplate())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/", r.page)

	api := router.Group("/api")
	{
		api.GET("/stats", r.allStats)
		api.GET("/stats/search", r.searchStats)
		api.GET("/stats/export", r.exportStats)
		api.GET("/reports", r.listReports)
		api.GET("/reports/:id", r.getReport)
	}

	return router
}

func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Authorization", "Accept-Language", ClientIDHeader},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowOrigins = nil
			break
		}
		cfg.AllowOrigins = append(cfg.AllowOrigins, o)
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}

func (r *Router) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		r.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (r *Router) allStats(c *gin.Context) {
	run, err := r.stats.All(c.Request.Context())
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (r *Router) searchStats(c *gin.Context) {
	run, err := r.stats.Search(c.Request.Context(), clientKey(c), c.QueryArray("name")...)
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (r *Router) exportStats(c *gin.Context) {
	table := c.DefaultQuery("table", render.TableCountries)
	run, err := r.runFor(c.Request.Context(), c)
	if err != nil {
		r.writeError(c, err)
		return
	}
	t, err := render.BuildTable(table, run.Report, render.Formatter{})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", t.Name))
	if err := render.WriteCSV(c.Writer, t); err != nil {
		r.log.Warn("csv export failed", "table", t.Name, "error", err)
		c.Status(http.StatusInternalServerError)
	}
}

func (r *Router) listReports(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit %q", raw)})
			return
		}
		limit = n
	}
	runs, err := r.stats.History(c.Request.Context(), c.Query("query"), limit)
	if err != nil {
		r.writeError(c, err)
		return
	}
	if runs == nil {
		runs = []model.ReportRun{}
	}
	c.JSON(http.StatusOK, gin.H{"items": runs})
}

func (r *Router) getReport(c *gin.Context) {
	run, err := r.stats.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// page serves the HTML statistics page: ?name= searches, ?all=1 lists every country.
func (r *Router) page(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	data := render.PageData{Name: name}
	if name == "" && c.Query("all") == "" {
		c.HTML(http.StatusOK, render.PageTemplateName, data)
		return
	}

	run, err := r.runFor(c.Request.Context(), c)
	if err != nil {
		status := r.statusFor(err)
		data.Error = "Error fetching all countries. Try again later."
		if name != "" {
			data.Error = "Error fetching countries by name. Verify the name or try again later."
		}
		if status >= http.StatusInternalServerError {
			r.log.Error("page fetch failed", "name", name, "error", err)
		}
		c.HTML(status, render.PageTemplateName, data)
		return
	}
	f := render.FormatterFor(c.GetHeader("Accept-Language"))
	c.HTML(http.StatusOK, render.PageTemplateName, render.NewPageData(name, run, f))
}

// runFor searches when the request carries non-blank name terms and lists all countries otherwise.
func (r *Router) runFor(ctx context.Context, c *gin.Context) (model.ReportRun, error) {
	if names := nameTerms(c); len(names) > 0 {
		return r.stats.Search(ctx, clientKey(c), names...)
	}
	return r.stats.All(ctx)
}

// nameTerms returns the non-blank name query values.
func nameTerms(c *gin.Context) []string {
	var names []string
	for _, n := range c.QueryArray("name") {
		if strings.TrimSpace(n) != "" {
			names = append(names, n)
		}
	}
	return names
}

func clientKey(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(ClientIDHeader)); id != "" {
		return id
	}
	return c.ClientIP()
}

func (r *Router) statusFor(err error) int {
	var upstream *countries.UpstreamError
	switch {
	case errors.Is(err, countries.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, countries.ErrNotFound), errors.Is(err, countries.ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, countries.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, countries.ErrHistoryDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, countries.ErrInvalidInput), errors.As(err, &upstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (r *Router) writeError(c *gin.Context, err error) {
	status := r.statusFor(err)
	if status >= http.StatusInternalServerError {
		r.log.Error("request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
