package cycle

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pantheon/internal/platform/metrics"
	"pantheon/pkg/domain"
	dErrors "pantheon/pkg/domain-errors"
	"pantheon/pkg/platform/sentinel"
	"pantheon/pkg/platform/tx"
)

// Service orchestrates cycle lifecycle management.
type Service struct {
	store   Store
	tx      tx.Runner
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) {
		if r != nil {
			s.tx = r
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		tx:    tx.NoopRunner{},
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCycle creates a new project cycle with a unique name.
func (s *Service) CreateCycle(ctx context.Context, name, description string) (*ProjectCycle, error) {
	c, err := NewProjectCycle(domain.CycleID(uuid.New()), name, description)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateCycle(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeDuplicateKey,
				"cycle name %q is already in use (project_cycles_name_key)", c.Name)
		}
		return nil, translateStoreErr(err, "create cycle")
	}
	s.log.Info("created project cycle", zap.String("cycle_id", c.ID.String()), zap.String("name", c.Name))
	if s.metrics != nil {
		s.metrics.RecordCreated("cycle")
	}
	return c, nil
}

func (s *Service) GetCycle(ctx context.Context, id domain.CycleID) (*ProjectCycle, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "cycle id is required")
	}
	c, err := s.store.FetchCycle(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "cycle %s not found", id)
		}
		return nil, translateStoreErr(err, "fetch cycle")
	}
	return c, nil
}

// ListCycles returns all cycles, archived ones included.
func (s *Service) ListCycles(ctx context.Context) ([]ProjectCycle, error) {
	cycles, err := s.store.FetchCycles(ctx)
	if err != nil {
		return nil, translateStoreErr(err, "list cycles")
	}
	return cycles, nil
}

// EditCycle applies a partial update. The store refreshes UpdatedAt only
// when a field actually changes.
func (s *Service) EditCycle(ctx context.Context, id domain.CycleID, edit EditCycle) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "cycle id is required")
	}
	if edit.Name != nil && *edit.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "cycle name cannot be empty")
	}
	err := s.store.EditCycle(ctx, id, edit)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Newf(dErrors.CodeNotFound, "cycle %s not found", id)
		case errors.Is(err, sentinel.ErrConflict):
			return dErrors.Newf(dErrors.CodeDuplicateKey,
				"cycle name %q is already in use (project_cycles_name_key)", *edit.Name)
		}
		return translateStoreErr(err, "edit cycle")
	}
	return nil
}

// DeleteCycle removes a cycle and everything it owns in one atomic unit of
// work. No row referencing the cycle survives a successful delete.
func (s *Service) DeleteCycle(ctx context.Context, id domain.CycleID) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "cycle id is required")
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.DeleteCycle(txCtx, id)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "cycle %s not found", id)
		}
		return translateStoreErr(err, "delete cycle")
	}
	s.log.Info("deleted project cycle", zap.String("cycle_id", id.String()))
	return nil
}

// Stats returns headline counts for a cycle's roster.
func (s *Service) Stats(ctx context.Context, id domain.CycleID) (*Stats, error) {
	if _, err := s.GetCycle(ctx, id); err != nil {
		return nil, err
	}
	stats, err := s.store.CycleStats(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, "fetch cycle stats")
	}
	return stats, nil
}

func translateStoreErr(err error, op string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, op)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, op)
}
