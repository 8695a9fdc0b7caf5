package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"travel/internal/web"
	"travel/pkg/apiclient"
	"travel/pkg/logger"
	"travel/pkg/notify"
	"travel/pkg/validate"

	"golang.org/x/sync/errgroup"
)

var (
	ErrReadOnly         = errors.New("this screen is read-only")
	ErrSubmitInProgress = errors.New("another change is still being saved")
)

// bulkLimit bounds the concurrent backend calls of one bulk action.
const bulkLimit = 4

type Lister[T any] interface {
	List(ctx context.Context, p apiclient.ListParams) (*apiclient.Page[T], error)
}

type Mutator[T any, W any] interface {
	Create(ctx context.Context, in W) (*T, error)
	Update(ctx context.Context, id string, in W) (*T, error)
	Delete(ctx context.Context, id string) error
}

// View is what a list screen renders.
type View[T any] struct {
	Items         []T                  `json:"items"`
	TotalElements int64                `json:"totalElements"`
	TotalPages    int                  `json:"totalPages"`
	Page          int                  `json:"page"`
	Size          int                  `json:"size"`
	Params        apiclient.ListParams `json:"params"`
	Loading       bool                 `json:"loading"`
	Submitting    bool                 `json:"submitting"`
}

// BulkResult reports which ids a bulk action changed.
type BulkResult struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
}

// Screen is the state of one entity's list screen: the current page, the
// parameters it was loaded with and the in-flight flags.
type Screen[T any, W any] struct {
	label     string
	plural    string
	lister    Lister[T]
	mutator   Mutator[T, W]
	normalize func(W) W
	changed   func(ctx context.Context) error
	validator *validate.Validator
	notifier  notify.Notifier
	logger    logger.Logger

	mu         sync.Mutex
	page       apiclient.Page[T]
	params     apiclient.ListParams
	generation uint64
	loading    bool
	submitting bool
}

type ScreenConfig[T any, W any] struct {
	Label     string // singular, used in notifications
	Plural    string
	Lister    Lister[T]
	Mutator   Mutator[T, W] // nil makes the screen read-only
	Normalize func(W) W
	// Changed runs after every successful create, update or delete.
	Changed func(ctx context.Context) error
}

func NewScreen[T any, W any](cfg ScreenConfig[T, W], v *validate.Validator, n notify.Notifier, log logger.Logger) *Screen[T, W] {
	normalize := cfg.Normalize
	if normalize == nil {
		normalize = func(w W) W { return w }
	}
	return &Screen[T, W]{
		label:     cfg.Label,
		plural:    cfg.Plural,
		lister:    cfg.Lister,
		mutator:   cfg.Mutator,
		normalize: normalize,
		changed:   cfg.Changed,
		validator: v,
		notifier:  n,
		logger:    log.With(logger.Field{Key: "screen", Value: cfg.Plural}),
		params:    apiclient.ListParams{Size: apiclient.DefaultPageSize},
		page:      apiclient.Page[T]{Content: []T{}},
	}
}

func (s *Screen[T, W]) ReadOnly() bool {
	return s.mutator == nil
}

func (s *Screen[T, W]) View() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Screen[T, W]) viewLocked() View[T] {
	items := make([]T, len(s.page.Content))
	copy(items, s.page.Content)
	return View[T]{
		Items:         items,
		TotalElements: s.page.TotalElements,
		TotalPages:    s.page.TotalPages,
		Page:          s.page.Number,
		Size:          s.page.Size,
		Params:        s.params,
		Loading:       s.loading,
		Submitting:    s.submitting,
	}
}

// Load fetches a page and replaces the snapshot. A response that arrives after
// a newer Load started is dropped.
func (s *Screen[T, W]) Load(ctx context.Context, params apiclient.ListParams) (View[T], error) {
	if params.Size <= 0 {
		params.Size = apiclient.DefaultPageSize
	}
	if params.Page < 0 {
		params.Page = 0
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.params = params
	s.loading = true
	s.mu.Unlock()

	page, err := s.lister.List(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("discarding superseded load", logger.Field{Key: "generation", Value: gen})
		return s.viewLocked(), nil
	}
	s.loading = false
	if err != nil {
		s.logger.Error("failed to load "+s.plural, logger.Err(err))
		s.notifier.Error(web.BackendMessage(err, "Failed to load "+s.plural))
		return s.viewLocked(), err
	}
	s.page = *page
	if s.page.Content == nil {
		s.page.Content = []T{}
	}
	return s.viewLocked(), nil
}

func (s *Screen[T, W]) reload(ctx context.Context) {
	s.mu.Lock()
	params := s.params
	s.mu.Unlock()
	_, _ = s.Load(ctx, params)
}

func (s *Screen[T, W]) begin() error {
	if s.mutator == nil {
		return ErrReadOnly
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmitInProgress
	}
	s.submitting = true
	return nil
}

func (s *Screen[T, W]) end() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}

func (s *Screen[T, W]) prepare(in W) (W, error) {
	in = s.normalize(in)
	if err := s.validator.Struct(in); err != nil {
		return in, err
	}
	return in, nil
}

func (s *Screen[T, W]) Create(ctx context.Context, in W) (*T, error) {
	if s.ReadOnly() {
		return nil, ErrReadOnly
	}
	in, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	out, err := s.mutator.Create(ctx, in)
	if err != nil {
		s.fail("create", err)
		return nil, err
	}
	s.notifier.Success(s.label + " created successfully")
	s.afterChange(ctx)
	return out, nil
}

func (s *Screen[T, W]) Update(ctx context.Context, id string, in W) (*T, error) {
	if s.ReadOnly() {
		return nil, ErrReadOnly
	}
	in, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	out, err := s.mutator.Update(ctx, id, in)
	if err != nil {
		s.fail("update", err)
		return nil, err
	}
	s.notifier.Success(s.label + " updated successfully")
	s.afterChange(ctx)
	return out, nil
}

func (s *Screen[T, W]) Delete(ctx context.Context, id string) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	if err := s.mutator.Delete(ctx, id); err != nil {
		s.fail("delete", err)
		return err
	}
	s.notifier.Success(s.label + " deleted successfully")
	s.afterChange(ctx)
	return nil
}

// Bulk applies op to every id, then raises one notification and reloads once.
func (s *Screen[T, W]) Bulk(ctx context.Context, action string, ids []string, op func(ctx context.Context, id string) error) (*BulkResult, error) {
	if len(ids) == 0 {
		return &BulkResult{Succeeded: []string{}, Failed: map[string]string{}}, nil
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	var (
		mu     sync.Mutex
		result = &BulkResult{Succeeded: []string{}, Failed: map[string]string{}}
		g      errgroup.Group
	)
	g.SetLimit(bulkLimit)
	for _, id := range ids {
		g.Go(func() error {
			err := op(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Error("bulk "+action+" failed", logger.Field{Key: "id", Value: id}, logger.Err(err))
				result.Failed[id] = web.BackendMessage(err, "request failed")
				return nil
			}
			result.Succeeded = append(result.Succeeded, id)
			return nil
		})
	}
	_ = g.Wait()

	total := len(ids)
	if len(result.Failed) == 0 {
		s.notifier.Success(fmt.Sprintf("%d %s %s successfully", total, s.plural, action))
	} else {
		s.notifier.Error(fmt.Sprintf("%d of %d %s could not be %s", len(result.Failed), total, s.plural, action))
	}
	s.afterChange(ctx)
	return result, nil
}

// afterChange runs the change hook and reloads the current page.
func (s *Screen[T, W]) afterChange(ctx context.Context) {
	if s.changed != nil {
		if err := s.changed(ctx); err != nil {
			s.logger.Warn("change hook failed", logger.Err(err))
		}
	}
	s.reload(ctx)
}

// fail logs err and raises it as a notification. Field errors are answered
// inline, so they are only logged.
func (s *Screen[T, W]) fail(op string, err error) {
	var fe *validate.FieldErrors
	if errors.As(err, &fe) {
		s.logger.Info(op+" rejected", logger.Err(err))
		return
	}
	s.logger.Error(op+" failed", logger.Err(err))
	s.notifier.Error(web.BackendMessage(err, fmt.Sprintf("Failed to %s %s", op, strings.ToLower(s.label))))
}
