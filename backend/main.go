package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/you/minesbot/engine"
)

var log = logrus.New()

type App struct {
	Hub       *Hub
	DB        *DB
	Analytics *Analytics
	Engine    *engine.Engine
	Learn     *engine.MemoryStore
}

// analyzeHandler is the one-shot variant of the websocket scan cycle, for
// callers that just want a move for a snapshot without holding a session.
func (a *App) analyzeHandler(c *gin.Context) {
	var snap SnapshotPayload
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := c.Query("session")
	if session == "" {
		session = "adhoc"
	}
	reply := a.HandleScan(session, snap)
	status := http.StatusOK
	if reply.Type == "stale" || reply.Type == "error" {
		status = http.StatusConflict
	}
	c.JSON(status, reply)
}

func (a *App) recentHandler(c *gin.Context) {
	limit := 10
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	rows, err := a.DB.QueryRecentRounds(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (a *App) statsHandler(c *gin.Context) {
	rows, err := a.DB.QueryStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (a *App) routes() http.Handler {
	r := gin.Default()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/ws", func(c *gin.Context) { wsHandler(a, c.Writer, c.Request) })
	r.POST("/analyze", a.analyzeHandler)
	r.GET("/recent", a.recentHandler)
	r.GET("/stats", a.statsHandler)
	return r
}

func main() {
	_ = os.Setenv("TZ", "UTC")
	cfg := LoadConfig()

	learn := engine.NewMemoryStore(cfg.LearningCapacity)
	app := &App{
		Hub:       NewHub(),
		DB:        MustOpenDB(cfg.PostgresDSN),
		Analytics: NewAnalytics(cfg.KafkaBrokers, cfg.KafkaTopic),
		Engine:    engine.New(cfg.EngineConfig(), nil, learn),
		Learn:     learn,
	}

	app.DB.AutoMigrate()
	if stats, err := app.DB.LoadPatternStats(context.Background()); err != nil {
		log.Warnln("load pattern stats err:", err)
	} else if len(stats) > 0 {
		learn.Load(stats)
		log.Infof("seeded learning store with %d pattern signatures", len(stats))
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: app.routes(), ReadHeaderTimeout: 5 * time.Second}
	log.WithFields(logrus.Fields{"addr": srv.Addr, "strategy": cfg.Strategy}).Info("minesbot backend listening")
	log.Fatal(srv.ListenAndServe())
}
