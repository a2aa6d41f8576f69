package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBConfig configures database instrumentation
type DBConfig struct {
	Tracing         bool
	Metrics         bool
	DBSystem        string // postgres, mysql, sqlite
	LogFullSQL      bool   // include bound parameters in spans
	SlowQueryThresh time.Duration
	PoolInterval    time.Duration
}

type dbContextKey string

const queryStartKey dbContextKey = "telemetry_query_start"

// dbInstrumentation hooks spans, slow-query marks and query metrics into GORM
type dbInstrumentation struct {
	config        DBConfig
	logger        *zap.Logger
	queryDuration *Histogram
	queryErrors   *Counter
}

// DBPoolStats samples sql.DB pool statistics into gauges
type DBPoolStats struct {
	sqlDB       *sql.DB
	connections *Gauge
	waitCount   *Gauge
	interval    time.Duration
	stop        chan struct{}
	done        chan struct{}
}

// InstrumentDB registers tracing and query metrics on db. The returned pool
// sampler is nil when metrics are off; start it with Start and end it with Stop.
func InstrumentDB(db *gorm.DB, providers *Providers, cfg DBConfig, logger *zap.Logger) (*DBPoolStats, error) {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	in := &dbInstrumentation{config: cfg, logger: logger}

	if cfg.Tracing {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return nil, err
		}
	}

	var pool *DBPoolStats
	if cfg.Metrics {
		meter := providers.Meter("storefront/db")
		var err error
		if in.queryDuration, err = NewHistogram(meter, HistogramOpts{
			Name:        "db.query.duration",
			Description: "Database query duration",
			Unit:        "s",
			Boundaries:  DBDurationBuckets,
		}); err != nil {
			return nil, err
		}
		if in.queryErrors, err = NewCounter(meter, "db.query.errors", "Failed database queries", "{query}"); err != nil {
			return nil, err
		}
		if pool, err = newDBPoolStats(db, meter, cfg.PoolInterval); err != nil {
			return nil, err
		}
	}

	if cfg.Tracing || cfg.Metrics {
		if err := in.register(db); err != nil {
			return nil, err
		}
	}

	logger.Info("Database instrumentation registered",
		zap.Bool("tracing", cfg.Tracing),
		zap.Bool("metrics", cfg.Metrics),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return pool, nil
}

func (in *dbInstrumentation) register(db *gorm.DB) error {
	cb := db.Callback()
	steps := []error{
		cb.Create().Before("gorm:create").Register("telemetry:before_create", in.before),
		cb.Create().After("gorm:create").Register("telemetry:after_create", in.afterFor("create")),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", in.before),
		cb.Query().After("gorm:query").Register("telemetry:after_query", in.afterFor("query")),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", in.before),
		cb.Update().After("gorm:update").Register("telemetry:after_update", in.afterFor("update")),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", in.before),
		cb.Delete().After("gorm:delete").Register("telemetry:after_delete", in.afterFor("delete")),
		cb.Row().Before("gorm:row").Register("telemetry:before_row", in.before),
		cb.Row().After("gorm:row").Register("telemetry:after_row", in.afterFor("row")),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", in.before),
		cb.Raw().After("gorm:raw").Register("telemetry:after_raw", in.afterFor("raw")),
	}
	return errors.Join(steps...)
}

func (in *dbInstrumentation) afterFor(op string) func(*gorm.DB) {
	return func(tx *gorm.DB) { in.after(tx, op) }
}

func (in *dbInstrumentation) before(tx *gorm.DB) {
	if tx.Statement.Context != nil {
		tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey, time.Now())
	}
}

func (in *dbInstrumentation) after(tx *gorm.DB, op string) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartKey).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	failed := tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound)

	if in.queryDuration != nil {
		attrs := []attribute.KeyValue{AttrDBOperation.String(operation(op, tx.Statement.SQL.String()))}
		if tx.Statement.Table != "" {
			attrs = append(attrs, AttrDBTable.String(tx.Statement.Table))
		}
		in.queryDuration.RecordDuration(ctx, elapsed, attrs...)
		if failed {
			in.queryErrors.Inc(ctx, attrs...)
		}
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if failed {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}
	if elapsed > in.config.SlowQueryThresh {
		span.SetAttributes(attribute.Bool("db.slow_query", true))
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", in.config.SlowQueryThresh.Milliseconds()),
		))
	}
}

// operation names raw statements by their leading keyword
func operation(op, sql string) string {
	if op != "row" && op != "raw" {
		return op
	}
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return op
	}
	return strings.ToLower(fields[0])
}

func newDBPoolStats(db *gorm.DB, meter metric.Meter, interval time.Duration) (*DBPoolStats, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	p := &DBPoolStats{sqlDB: sqlDB, interval: interval}
	if p.connections, err = NewGauge(meter, "db.pool.connections", "Connections by state", "{connection}"); err != nil {
		return nil, err
	}
	if p.waitCount, err = NewGauge(meter, "db.pool.wait_count", "Total waits for a connection", "{wait}"); err != nil {
		return nil, err
	}
	return p, nil
}

// Start samples pool statistics until Stop or ctx is done
func (p *DBPoolStats) Start(ctx context.Context) {
	if p == nil || p.stop != nil {
		return
	}
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			p.Collect(ctx)
			select {
			case <-ticker.C:
			case <-p.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Collect records one sample
func (p *DBPoolStats) Collect(ctx context.Context) {
	stats := p.sqlDB.Stats()
	p.connections.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	p.connections.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	p.connections.Record(ctx, int64(stats.OpenConnections), AttrDBState.String("open"))
	p.waitCount.Record(ctx, stats.WaitCount)
}

// Stop ends sampling
func (p *DBPoolStats) Stop() {
	if p == nil || p.stop == nil {
		return
	}
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
	<-p.done
}
