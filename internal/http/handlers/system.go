package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	intconfig "travelbooking/internal/config"
	"travelbooking/internal/repositories"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

var errNoDatabase = errors.New("database not connected")

// SetRouter keeps the engine so /api/routes can list the booking API.
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

// GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "travelbooking",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// GET /api/db-check pings MySQL and reports catalog and booking totals.
func DBCheck(c *gin.Context) {
	db := intconfig.DB
	if db == nil {
		RespondError(c, http.StatusServiceUnavailable, "database check failed", errNoDatabase)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "database check failed", err)
		return
	}
	counts, err := repositories.ReportRepository{DB: db}.CatalogCounts(ctx)
	if err != nil {
		RespondError(c, http.StatusServiceUnavailable, "database check failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"database": "ok", "counts": counts})
}

// GET /api/routes lists the API surface sorted by path, skipping the
// preflight catch-all.
func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		if rt.Method == http.MethodOptions {
			continue
		}
		out = append(out, gin.H{
			"method": rt.Method,
			"path":   rt.Path,
			"area":   routeArea(rt.Path),
		})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "routes": out})
}

// routeArea names the role group a path belongs to.
func routeArea(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/admin"):
		return "admin"
	case strings.HasPrefix(path, "/api/partner"):
		return "partner"
	case strings.HasPrefix(path, "/api/bookings"), strings.HasPrefix(path, "/api/payments"):
		return "customer"
	case strings.HasPrefix(path, "/api"):
		return "public"
	}
	return "system"
}
