package resolution

import (
	"context"

	"go.uber.org/zap"

	"github.com/sushant-115/modsort/core/catalog"
	"github.com/sushant-115/modsort/core/transaction"
)

// LogApplier is an Applier that only logs what a pass would do. It is used
// for dry runs.
type LogApplier struct {
	Logger *zap.Logger
}

func (a LogApplier) BeginTable(_ context.Context, table *catalog.Table) error {
	a.Logger.Info("begin table", zap.Stringer("table", table))
	return nil
}

func (a LogApplier) ApplyKeyed(_ context.Context, op *transaction.Operation, d Decision) error {
	a.Logger.Info("apply", zap.Stringer("decision", d), zap.Stringer("op", op))
	return nil
}

func (a LogApplier) ApplyStructural(_ context.Context, op *transaction.Operation, d Decision) error {
	a.Logger.Info("apply", zap.Stringer("decision", d), zap.Stringer("op", op))
	return nil
}

func (a LogApplier) EndTable(_ context.Context, table *catalog.Table) error {
	a.Logger.Info("end table", zap.Stringer("table", table))
	return nil
}
