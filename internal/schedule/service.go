package schedule

import (
	"context"
	"time"

	"travel/pkg/apiclient"
	"travel/pkg/logger"
	"travel/pkg/validate"
)

type Writer interface {
	Get(ctx context.Context, id string) (*apiclient.FlightSchedule, error)
	Create(ctx context.Context, in apiclient.CreateScheduleRequest) (*apiclient.FlightSchedule, error)
	Update(ctx context.Context, id string, in apiclient.UpdateScheduleRequest) (*apiclient.FlightSchedule, error)
	Delete(ctx context.Context, id string) error
}

// Service checks schedule forms against the timing rules before they reach the
// backend. It is the mutator behind the admin schedules screen, which owns the
// submitting flag, the notifications and the list reload.
type Service struct {
	schedules Writer
	validator *validate.Validator
	logger    logger.Logger
	now       func() time.Time
}

func NewService(schedules Writer, v *validate.Validator, log logger.Logger) *Service {
	return &Service{schedules: schedules, validator: v, logger: log, now: time.Now}
}

// Load opens the editor for an existing schedule.
func (s *Service) Load(ctx context.Context, id string) (*Form, error) {
	existing, err := s.schedules.Get(ctx, id)
	if err != nil {
		s.logger.Error("failed to load schedule", logger.Err(err), logger.Field{Key: "schedule_id", Value: id})
		return nil, err
	}
	return Open(existing, nil), nil
}

// Draft fills in the suggested arrival and reports validation problems without submitting.
func (s *Service) Draft(f *Form) (*Form, error) {
	f.SuggestArrival()
	return f, f.Validate(s.validator, s.now())
}

// Create validates a new schedule and submits it. Backend rejections such as an
// aircraft conflict are returned with their message intact.
func (s *Service) Create(ctx context.Context, f Form) (*apiclient.FlightSchedule, error) {
	f.Existing = nil
	if err := f.Validate(s.validator, s.now()); err != nil {
		return nil, err
	}
	return s.schedules.Create(ctx, f.CreateRequest())
}

// Update validates f against the stored schedule id and submits it.
func (s *Service) Update(ctx context.Context, id string, f Form) (*apiclient.FlightSchedule, error) {
	loaded, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Existing = loaded.Existing
	if err := f.Validate(s.validator, s.now()); err != nil {
		return nil, err
	}
	return s.schedules.Update(ctx, id, f.UpdateRequest())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.schedules.Delete(ctx, id)
}
