package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicrm/minicrm/internal/crm"
)

// StatsWarmupJob pre-populates the dashboard stats cache so the first
// dashboard load after a quiet period is served from Redis.
type StatsWarmupJob struct {
	CRM     *crm.Service
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *Metrics
}

// NewStatsWarmupJob wires dependencies for the warmup handler.
func NewStatsWarmupJob(crmSvc *crm.Service, pool *pgxpool.Pool, logger *slog.Logger, metrics *Metrics) *StatsWarmupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsWarmupJob{CRM: crmSvc, Pool: pool, Logger: logger, Metrics: metrics}
}

// Handle processes stats warmup tasks.
func (j *StatsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.CRM == nil {
		return errors.New("stats warmup: handler not configured")
	}
	tracker := j.Metrics.Track("stats_warmup")
	return tracker.End(j.handle(ctx, t))
}

func (j *StatsWarmupJob) handle(ctx context.Context, t *asynq.Task) error {
	var payload StatsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	scopes, err := j.scopes(ctx, payload)
	if err != nil {
		j.Logger.Error("load warmup scopes", slog.Any("error", err))
		return err
	}

	warmed := 0
	for _, scope := range scopes {
		if err := j.CRM.PrimeStats(ctx, scope); err != nil {
			j.Logger.Error("prime stats", slog.String("owner_id", scope.OwnerID), slog.Any("error", err))
			return err
		}
		warmed++
	}
	j.Logger.Info("stats warmup finished", slog.Int("scopes", warmed))
	return nil
}

func (j *StatsWarmupJob) scopes(ctx context.Context, payload StatsWarmupPayload) ([]crm.Scope, error) {
	if payload.OwnerID != "" {
		return []crm.Scope{{OwnerID: payload.OwnerID}}, nil
	}

	scopes := []crm.Scope{{All: true}}
	if j.Pool == nil {
		return scopes, nil
	}

	rows, err := j.Pool.Query(ctx, `SELECT id FROM users WHERE role = 'user'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		scopes = append(scopes, crm.Scope{OwnerID: id})
	}
	return scopes, rows.Err()
}
