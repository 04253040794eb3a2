// Package statusapi exposes a thin, read-only HTTP surface alongside
// the RESP listener: a health check, a JSON status summary, Prometheus
// metrics, and pprof — mirroring the auxiliary HTTP surface pattern the
// retrieval pack's gin-based services use. It never accepts a command
// that mutates server state; every Redis-protocol mutation still goes
// through the RESP listener only.
package statusapi

import (
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsSource is the read-only slice of *redkit.Server this package
// needs. Declared as an interface here (rather than importing the core
// package's concrete type) keeps the dependency direction one-way:
// core knows nothing about statusapi.
type StatsSource interface {
	DBSize() int
	ClientCount() int
}

// NewRouter builds the gin engine backing the status surface. Gauges
// are rebuilt bound to src each call so multiple Server instances in
// the same test process don't collide on a shared prometheus default
// registry.
func NewRouter(src StatsSource) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "redkit_db_keys",
		Help: "Number of keys currently stored.",
	}, func() float64 { return float64(src.DBSize()) }))
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "redkit_connected_clients",
		Help: "Number of currently connected clients.",
	}, func() float64 { return float64(src.ClientCount()) }))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"db_keys":           src.DBSize(),
			"connected_clients": src.ClientCount(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	pprof.Register(r)

	return r
}
