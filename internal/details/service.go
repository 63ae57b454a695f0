package details

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"poolDetails/internal/metrics"
	"poolDetails/internal/model"
)

const (
	DefaultContract = "pool-details.near"
	DefaultMethod   = "get_all_fields"
	DefaultLimit    = 300

	loadKey = "load"
)

// ContractCaller performs read-only contract calls.
type ContractCaller interface {
	CallFunction(ctx context.Context, accountID, method string, args any, out any) error
}

// Config selects the contract view call that lists pool details.
type Config struct {
	Contract  string
	Method    string
	FromIndex int
	Limit     int
}

type getAllFieldsArgs struct {
	FromIndex int `json:"from_index"`
	Limit     int `json:"limit"`
}

// LoadResult is the outcome of a details load.
type LoadResult struct {
	details model.PoolDetails
	err     error
}

// Loaded returns a successful result holding details.
func Loaded(details model.PoolDetails) LoadResult {
	if details == nil {
		details = model.PoolDetails{}
	}
	return LoadResult{details: details}
}

// LoadFailed returns a failed result with an empty mapping.
func LoadFailed(err error) LoadResult {
	return LoadResult{details: model.PoolDetails{}, err: err}
}

// Failed reports whether the load failed.
func (r LoadResult) Failed() bool { return r.err != nil }

// Err returns the failure reason, or nil.
func (r LoadResult) Err() error { return r.err }

// Len returns the number of pools in the result.
func (r LoadResult) Len() int { return len(r.details) }

// Details returns a copy of the loaded mapping.
func (r LoadResult) Details() model.PoolDetails {
	if r.details == nil {
		return model.PoolDetails{}
	}
	return maps.Clone(r.details)
}

// Service loads pool details once and serves lookups and renders from memory.
type Service struct {
	cfg     Config
	caller  ContractCaller
	metrics *metrics.Metrics
	logger  *zap.Logger

	group singleflight.Group

	mu      sync.RWMutex
	details model.PoolDetails
	loaded  bool
	result  LoadResult
}

// NewService builds a Service with its dependencies.
func NewService(cfg Config, caller ContractCaller, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Contract == "" {
		cfg.Contract = DefaultContract
	}
	if cfg.Method == "" {
		cfg.Method = DefaultMethod
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &Service{
		cfg:     cfg,
		caller:  caller,
		metrics: m,
		logger:  logger,
		details: model.PoolDetails{},
	}
}

// Load fetches all pool details on first use and returns the cached result
// afterwards. A failed load is not retried. Concurrent first calls share
// one contract call. A load abandoned because its context ended is not
// cached, and callers sharing it with a live context start a new one.
func (s *Service) Load(ctx context.Context) LoadResult {
	for {
		if result, ok := s.Result(); ok {
			return result
		}

		v, _, _ := s.group.Do(loadKey, func() (interface{}, error) {
			if result, ok := s.Result(); ok {
				return result, nil
			}
			result := s.fetch(ctx)
			if result.Failed() && ctx.Err() != nil {
				return result, nil
			}

			s.mu.Lock()
			s.details = result.details
			s.loaded = true
			s.result = result
			s.mu.Unlock()

			return result, nil
		})

		result := v.(LoadResult)
		if s.Loaded() || ctx.Err() != nil {
			return result
		}
	}
}

func (s *Service) fetch(ctx context.Context) LoadResult {
	if s.caller == nil {
		return s.fail(fmt.Errorf("contract caller is nil"))
	}

	s.logger.Info("loading pool details",
		zap.String("contract", s.cfg.Contract),
		zap.String("method", s.cfg.Method),
		zap.Int("from_index", s.cfg.FromIndex),
		zap.Int("limit", s.cfg.Limit),
	)

	var details model.PoolDetails
	args := getAllFieldsArgs{FromIndex: s.cfg.FromIndex, Limit: s.cfg.Limit}
	if err := s.caller.CallFunction(ctx, s.cfg.Contract, s.cfg.Method, args, &details); err != nil {
		return s.fail(fmt.Errorf("load pool details: %w", err))
	}

	result := Loaded(details)
	s.metrics.ObserveLoad("ok", result.Len())
	s.logger.Info("pool details loaded", zap.Int("pools", result.Len()))
	return result
}

func (s *Service) fail(err error) LoadResult {
	s.metrics.ObserveLoad("error", 0)
	s.logger.Error("pool details load failed", zap.String("contract", s.cfg.Contract), zap.Error(err))
	return LoadFailed(err)
}

// Result returns the load result and whether a load has completed.
func (s *Service) Result() (LoadResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.loaded
}

// Loaded reports whether a load has completed, successfully or not.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Details returns a copy of the cached mapping.
func (s *Service) Details() model.PoolDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.details)
}

// PoolIDs returns the cached pool ids in ascending order.
func (s *Service) PoolIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.details))
	for id := range s.details {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Records returns the display record of every cached pool, ordered by id.
func (s *Service) Records() []model.PoolRecord {
	ids := s.PoolIDs()
	records := make([]model.PoolRecord, 0, len(ids))
	for _, id := range ids {
		info := s.Format(id)
		if info == nil {
			continue
		}
		records = append(records, model.PoolRecord{PoolID: id, PoolInfo: *info})
	}
	return records
}
