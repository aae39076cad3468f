package app

import (
	"log/slog"

	"cohort/pkg/correlation"
	"cohort/pkg/health"
	"cohort/pkg/logger"
	"cohort/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type Router struct {
	registry *health.Registry
	source   health.Source
	dumper   health.HeapDumper
}

func NewRouter(registry *health.Registry, source health.Source, dumper health.HeapDumper) *Router {
	return &Router{registry: registry, source: source, dumper: dumper}
}

func (r *Router) SetUp(engine *gin.Engine) {
	health.Routes(engine, r.registry, r.source, r.dumper)
	engine.GET(metrics.ScrapePath, metrics.Handler())
}

func NewGinEngine(l *slog.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(correlation.Middleware(), metrics.GinMiddleware(), logger.GinLogger(l), gin.Recovery())
	return engine
}
