package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/asteria-os/asterctl/internal/gate"
	"github.com/asteria-os/asterctl/internal/manifest"
	"github.com/asteria-os/asterctl/internal/observability"
	"github.com/asteria-os/asterctl/internal/telemetry"
)

var startedAt = time.Now()

type hudConfig struct {
	addr          string
	manifestPath  string
	constantsPath string
}

func newRouter(cfg hudConfig, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware("hudctl"))
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(startedAt).String(),
			"service": "hud",
		})
	})
	r.GET("/report", reportHandler(cfg))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// reportHandler evaluates the configured documents fresh on every request;
// kappa and omega arrive as query parameters so the HUD can poll with live
// values once a telemetry stream exists.
func reportHandler(cfg hudConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		kappa, ok := queryFloat(c, "kappa")
		if !ok {
			return
		}
		omega, ok := queryFloat(c, "omega")
		if !ok {
			return
		}

		started := time.Now()
		m, err := manifest.LoadRun(cfg.manifestPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		constants, err := manifest.LoadStudy(cfg.constantsPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		digest, err := manifest.Digest(cfg.manifestPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		sample, err := telemetry.NewSample(kappa, omega, m.Residual, m.Tol)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		verdicts, err := gate.Evaluate(sample, constants)
		if err != nil {
			if errors.Is(err, telemetry.ErrInvalidMetric) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		for _, v := range verdicts {
			observability.RecordVerdict(v.Gate, string(v.Status))
		}
		report := gate.NewReport(m, digest, sample, verdicts)
		observability.RecordEvaluation(string(report.Overall), time.Since(started))
		c.JSON(http.StatusOK, report)
	}
}

func queryFloat(c *gin.Context, name string) (float64, bool) {
	raw := c.DefaultQuery(name, "0")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a number, got " + strconv.Quote(raw)})
		return 0, false
	}
	return v, true
}
