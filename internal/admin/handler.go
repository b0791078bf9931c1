// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/user-backend/internal/auth"
	"github.com/carterperez-dev/templates/user-backend/internal/core"
	"github.com/carterperez-dev/templates/user-backend/internal/user"
)

// ClaimService manages operation claims. *user.Service satisfies it.
type ClaimService interface {
	ListOperationClaims(ctx context.Context) ([]user.OperationClaim, error)
	AssignClaim(ctx context.Context, req user.ClaimAssignment) error
	RevokeClaim(ctx context.Context, req user.ClaimAssignment) error
}

// CounterReader reads named event counters. *core.Redis satisfies it.
type CounterReader interface {
	Counters(ctx context.Context, names ...string) (map[string]int64, error)
}

var authCounters = []string{
	auth.CounterRegister,
	auth.CounterLogin,
	auth.CounterLoginFailed,
}

type Handler struct {
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
	claims     ClaimService
	counters   CounterReader
}

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
	Claims     ClaimService
	Counters   CounterReader
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
		claims:     cfg.Claims,
		counters:   cfg.Counters,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Get("/stats/auth", h.GetAuthCounters)

		if h.claims != nil {
			r.Get("/claims", h.ListOperationClaims)
			r.Post("/users/{userID}/claims", h.AssignClaim)
			r.Delete("/users/{userID}/claims/{claimName}", h.RevokeClaim)
		}
	})
}

func (h *Handler) GetAuthCounters(w http.ResponseWriter, r *http.Request) {
	if h.counters == nil {
		core.OK(w, map[string]int64{})
		return
	}

	counts, err := h.counters.Counters(r.Context(), authCounters...)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, counts)
}

func (h *Handler) ListOperationClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.claims.ListOperationClaims(r.Context())
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.OK(w, claims)
}

type assignClaimBody struct {
	ClaimName string `json:"claim_name"`
}

func (h *Handler) AssignClaim(w http.ResponseWriter, r *http.Request) {
	var body assignClaimBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	err := h.claims.AssignClaim(r.Context(), user.ClaimAssignment{
		UserID:    chi.URLParam(r, "userID"),
		ClaimName: body.ClaimName,
	})
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) RevokeClaim(w http.ResponseWriter, r *http.Request) {
	err := h.claims.RevokeClaim(r.Context(), user.ClaimAssignment{
		UserID:    chi.URLParam(r, "userID"),
		ClaimName: chi.URLParam(r, "claimName"),
	})
	if err != nil {
		core.WriteServiceError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealthy := true
	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			dbHealthy = false
		}
	}

	redisHealthy := true
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	var counts map[string]int64
	if h.counters != nil {
		//nolint:errcheck // counters are informational here
		counts, _ = h.counters.Counters(ctx, authCounters...)
	}

	response := SystemStatsResponse{
		Counters: counts,
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
			MemAlloc:     memStats.Alloc,
			MemSys:       memStats.Sys,
			NumGC:        memStats.NumGC,
		},
	}

	core.OK(w, response)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}

	core.OK(w, response)
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type SystemStatsResponse struct {
	Database DatabaseStatus   `json:"database"`
	Redis    RedisStatus      `json:"redis"`
	Runtime  RuntimeStats     `json:"runtime"`
	Counters map[string]int64 `json:"counters,omitempty"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
