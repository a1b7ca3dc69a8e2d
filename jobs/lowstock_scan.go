package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocklane/stocklane/internal/observability"
)

// LowStockScanJob sweeps the product catalog for items at or below their
// low-stock threshold and surfaces the counts per store.
type LowStockScanJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *observability.JobMetrics
}

// NewLowStockScanJob initialises the low-stock scan handler.
func NewLowStockScanJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *observability.JobMetrics) *LowStockScanJob {
	return &LowStockScanJob{Pool: pool, Logger: logger, Metrics: metrics}
}

// Handle executes the low-stock scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskLowStockScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	query := `SELECT store_id, COUNT(*), COUNT(*) FILTER (WHERE stock_quantity = 0)
		FROM products
		WHERE is_active = TRUE AND stock_quantity <= low_stock_threshold`
	args := []any{}
	if payload.StoreID != "" {
		storeID, err := uuid.Parse(payload.StoreID)
		if err != nil {
			return asynq.SkipRetry
		}
		query += ` AND store_id = $1`
		args = append(args, storeID)
	}
	query += ` GROUP BY store_id`

	rows, err := j.Pool.Query(ctx, query, args...)
	if err != nil {
		resultErr = err
		return resultErr
	}
	defer rows.Close()

	for rows.Next() {
		var storeID uuid.UUID
		var lowCount, outCount int
		if err := rows.Scan(&storeID, &lowCount, &outCount); err != nil {
			resultErr = err
			return resultErr
		}
		j.Metrics.SetLowStockCount(storeID.String(), lowCount)
		j.logger().Info("low stock scan",
			slog.String("store_id", storeID.String()),
			slog.Int("low_stock", lowCount),
			slog.Int("out_of_stock", outCount))
	}
	if err := rows.Err(); err != nil {
		resultErr = err
		return resultErr
	}
	return nil
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
