// Package resolution drives the final pass over a transaction's modifications
// once the commit or rollback decision is known. The modification list is
// sorted first so each table is visited once, with its keyed modifications in
// key order.
package resolution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sushant-115/modsort/core/catalog"
	"github.com/sushant-115/modsort/core/transaction"
	internaltelemetry "github.com/sushant-115/modsort/internal/telemetry"
	"github.com/sushant-115/modsort/pkg/logger"
	"github.com/sushant-115/modsort/pkg/telemetry"
)

var ErrUnsortedMods = errors.New("modifications are not in resolution order")

// Decision is the outcome being applied.
type Decision int

const (
	Commit Decision = iota
	Rollback
)

func (d Decision) String() string {
	if d == Commit {
		return "commit"
	}
	return "rollback"
}

// Applier performs the page-level work of a resolution pass. BeginTable and
// EndTable bracket each table exactly once; between them the table's
// modifications arrive with keyed ones in key order.
type Applier interface {
	BeginTable(ctx context.Context, table *catalog.Table) error
	ApplyKeyed(ctx context.Context, op *transaction.Operation, d Decision) error
	ApplyStructural(ctx context.Context, op *transaction.Operation, d Decision) error
	EndTable(ctx context.Context, table *catalog.Table) error
}

// Summary describes a finished pass.
type Summary struct {
	ResolutionID uuid.UUID
	Decision     Decision
	Tables       int
	Keyed        int
	Structural   int
}

// Resolver resolves transactions against an Applier.
type Resolver struct {
	applier Applier
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *internaltelemetry.ResolutionMetrics
}

// NewResolver builds a Resolver. tel may be nil to disable telemetry.
func NewResolver(applier Applier, log *zap.Logger, tel *telemetry.Telemetry) (*Resolver, error) {
	if tel == nil {
		tel = telemetry.Noop()
	}
	metrics, err := internaltelemetry.NewResolutionMetrics(tel.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolution metrics: %w", err)
	}
	return &Resolver{
		applier: applier,
		logger:  logger.Named(log, "resolution"),
		tracer:  tel.Tracer,
		metrics: metrics,
	}, nil
}

// Resolve sorts txn's modifications and hands them to the applier, table by
// table. Commit requires a prepared transaction; rollback also accepts a
// running one. On an applier error or cancellation the transaction keeps its
// state and modifications so the pass can be retried.
func (r *Resolver) Resolve(ctx context.Context, txn *transaction.Transaction, d Decision) (Summary, error) {
	sum := Summary{ResolutionID: uuid.New(), Decision: d}

	switch {
	case txn.State == transaction.TxnStatePrepared:
	case txn.State == transaction.TxnStateRunning && d == Rollback:
		// Still running until MarkResolved; a failed pass leaves it that way.
	default:
		return sum, fmt.Errorf("txn %d: %s while %s: %w", txn.ID, d, txn.State, transaction.ErrTxnInvalidState)
	}

	start := time.Now()
	attrs := metric.WithAttributes(attribute.String("decision", d.String()))
	r.metrics.ActivePassesUpDown.Add(ctx, 1, attrs)
	ctx, span := r.tracer.Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("resolution.id", sum.ResolutionID.String()),
		attribute.Int64("txn.id", int64(txn.ID)),
		attribute.String("decision", d.String()),
	))

	err := r.resolve(ctx, txn, d, &sum)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	} else {
		span.SetStatus(otelcodes.Ok, "Success")
	}
	span.End()

	r.metrics.ActivePassesUpDown.Add(ctx, -1, attrs)
	r.metrics.PassesCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("decision", d.String()),
		attribute.String("outcome", outcome),
	))
	r.metrics.PassLatency.Record(ctx, time.Since(start).Milliseconds(), attrs)
	r.metrics.TablesPerPass.Record(ctx, int64(sum.Tables), attrs)
	r.metrics.OpsCounter.Add(ctx, int64(sum.Keyed), metric.WithAttributes(attribute.String("kind", "keyed")))
	r.metrics.OpsCounter.Add(ctx, int64(sum.Structural), metric.WithAttributes(attribute.String("kind", "structural")))

	if err != nil {
		r.logger.Error("resolution failed",
			zap.Uint64("txn", txn.ID),
			zap.Stringer("resolution_id", sum.ResolutionID),
			zap.Stringer("decision", d),
			zap.Error(err))
		return sum, err
	}
	r.logger.Info("transaction resolved",
		zap.Uint64("txn", txn.ID),
		zap.Stringer("resolution_id", sum.ResolutionID),
		zap.Stringer("decision", d),
		zap.Int("tables", sum.Tables),
		zap.Int("keyed", sum.Keyed),
		zap.Int("structural", sum.Structural),
		zap.Duration("elapsed", time.Since(start)))
	return sum, nil
}

func (r *Resolver) resolve(ctx context.Context, txn *transaction.Transaction, d Decision, sum *Summary) error {
	txn.SortMods()
	mods := txn.Mods()

	// Only a collator that is not a strict weak ordering can get us here.
	if i, ok := transaction.CheckSorted(mods); !ok {
		return fmt.Errorf("txn %d: %s before %s: %w", txn.ID, &mods[i], &mods[i+1], ErrUnsortedMods)
	}

	for i := 0; i < len(mods); {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("txn %d: %w", txn.ID, err)
		}

		table := mods[i].Table()
		if err := r.applier.BeginTable(ctx, table); err != nil {
			return fmt.Errorf("txn %d: begin table %s: %w", txn.ID, table, err)
		}

		j := i
		for ; j < len(mods) && mods[j].Table().ID() == table.ID(); j++ {
			op := &mods[j]
			if op.HasKey() {
				if err := r.applier.ApplyKeyed(ctx, op, d); err != nil {
					return fmt.Errorf("txn %d: %s %s: %w", txn.ID, d, op, err)
				}
				sum.Keyed++
				continue
			}
			if err := r.applier.ApplyStructural(ctx, op, d); err != nil {
				return fmt.Errorf("txn %d: %s %s: %w", txn.ID, d, op, err)
			}
			sum.Structural++
		}

		if err := r.applier.EndTable(ctx, table); err != nil {
			return fmt.Errorf("txn %d: end table %s: %w", txn.ID, table, err)
		}
		sum.Tables++
		i = j
	}

	return txn.MarkResolved(d == Commit)
}
