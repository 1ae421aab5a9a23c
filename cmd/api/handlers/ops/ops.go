package handlers

import (
	"context"
	"time"

	"VideoTube.com/pkg/database"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

type Handler struct {
	db  *gorm.DB
	rdb redis.UniversalClient
}

func NewHandler(db *gorm.DB, rdb redis.UniversalClient) *Handler {
	return &Handler{db: db, rdb: rdb}
}

type HostStats struct {
	CPUPercent     float64 `json:"cpu_percent"`
	MemUsed        uint64  `json:"mem_used"`
	MemTotal       uint64  `json:"mem_total"`
	MemUsedPercent float64 `json:"mem_used_percent"`
}

type Health struct {
	Database string     `json:"database"`
	Redis    string     `json:"redis"`
	Host     *HostStats `json:"host,omitempty"`
}

func (h *Handler) Ping(ctx context.Context, c *app.RequestContext) {
	response.SendOK(c, map[string]string{"message": "pong"}, "pong")
}

// Healthz 数据库与 redis 必须可达, 主机指标取不到时只记日志
func (h *Handler) Healthz(ctx context.Context, c *app.RequestContext) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		response.SendResponse(c, errors.WithMessage(errno.MysqlErr.WithMessage("Database is unreachable"), err.Error()), nil)
		return
	}
	health := &Health{Database: "ok", Redis: "disabled"}
	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			response.SendResponse(c, errors.WithMessage(errno.RedisErr.WithMessage("Redis is unreachable"), err.Error()), nil)
			return
		}
		health.Redis = "ok"
	}

	stats, err := hostStats(ctx)
	if err != nil {
		hlog.CtxWarnf(ctx, "collect host stats failed: %v", err)
	}
	health.Host = stats
	response.SendOK(c, health, "healthy")
}

func hostStats(ctx context.Context) (*HostStats, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	stats := &HostStats{
		MemUsed:        vm.Used,
		MemTotal:       vm.Total,
		MemUsedPercent: vm.UsedPercent,
	}
	percent, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return stats, err
	}
	if len(percent) > 0 {
		stats.CPUPercent = percent[0]
	}
	return stats, nil
}
