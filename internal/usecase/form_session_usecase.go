package usecase

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go-application-form/internal/domain"
	"go-application-form/pkg/apperror"
	"go-application-form/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// formSession guards one controller so every event runs to completion
// before the next one starts.
type formSession struct {
	mu          sync.Mutex
	id          string
	controller  *FormController
	submitted   bool
	submittedAt time.Time
	updatedAt   time.Time
}

// SessionConfig bounds the in-memory session registry
type SessionConfig struct {
	TTL         time.Duration
	MaxSessions int
}

// FormSessions keeps one FormController per client session in memory
type FormSessions struct {
	mu       sync.RWMutex
	sessions map[string]*formSession
	cfg      SessionConfig
	sink     domain.Sink
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time
}

// NewFormSessionUsecase creates the session registry used by the HTTP adapters
func NewFormSessionUsecase(sink domain.Sink, validate *validator.Validate, log *slog.Logger, cfg SessionConfig) *FormSessions {
	if log == nil {
		log = slog.Default()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &FormSessions{
		sessions: make(map[string]*formSession),
		cfg:      cfg,
		sink:     sink,
		validate: validate,
		log:      log,
		now:      time.Now,
	}
}

var _ domain.FormSessionUsecase = (*FormSessions)(nil)

func (uc *FormSessions) Create(ctx context.Context) (*domain.FormSnapshot, error) {
	s := &formSession{
		id:         uuid.NewString(),
		controller: NewFormController(uc.sink, uc.validate, uc.log),
		updatedAt:  uc.now(),
	}
	snap := s.snapshot()

	uc.mu.Lock()
	if uc.cfg.MaxSessions > 0 && len(uc.sessions) >= uc.cfg.MaxSessions {
		uc.mu.Unlock()
		return nil, apperror.Unavailable("Too many open application forms, please try again later")
	}
	uc.sessions[s.id] = s
	uc.mu.Unlock()

	uc.log.DebugContext(ctx, "Form session created", "form_id", s.id)
	return snap, nil
}

func (uc *FormSessions) Get(ctx context.Context, id string) (*domain.FormSnapshot, error) {
	s, err := uc.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

// UpdateFields applies updates in order. The first rejected update stops the
// batch; earlier updates in the same batch stay applied.
func (uc *FormSessions) UpdateFields(ctx context.Context, id string, updates []domain.FieldUpdate) (*domain.FormSnapshot, error) {
	s, err := uc.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		kind, ok := domain.ParseInputKind(string(u.Kind))
		if !ok {
			return nil, apperror.BadRequest("Invalid input kind: " + string(u.Kind))
		}
		if err := s.controller.UpdateField(u.Name, u.Value, kind); err != nil {
			return nil, err
		}
	}
	s.updatedAt = uc.now()
	return s.snapshot(), nil
}

func (uc *FormSessions) Validate(ctx context.Context, id string) (*domain.ValidationResult, error) {
	s, err := uc.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	valid, errs := s.controller.Validate()
	s.updatedAt = uc.now()
	return &domain.ValidationResult{Valid: valid, Errors: errs}, nil
}

func (uc *FormSessions) Submit(ctx context.Context, id string) (*domain.FormSnapshot, *domain.ValidationResult, error) {
	s, err := uc.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	valid, errs, err := s.controller.Submit(ctx)
	s.updatedAt = uc.now()
	if err != nil {
		uc.log.ErrorContext(ctx, "Form submit failed", "form_id", id, "error", err)
		return nil, nil, err
	}
	if valid {
		s.submitted = true
		s.submittedAt = s.updatedAt
		uc.log.InfoContext(ctx, "Form submitted", "form_id", id)
	}
	return s.snapshot(), &domain.ValidationResult{Valid: valid, Errors: errs}, nil
}

func (uc *FormSessions) Reset(ctx context.Context, id string) (*domain.FormSnapshot, error) {
	s, err := uc.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.controller.Reset()
	s.submitted = false
	s.submittedAt = time.Time{}
	s.updatedAt = uc.now()
	return s.snapshot(), nil
}

func (uc *FormSessions) Delete(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.sessions[id]; !ok {
		return apperror.NotFound("Application form not found")
	}
	delete(uc.sessions, id)
	return nil
}

func (uc *FormSessions) Options() domain.FormOptions {
	return domain.FormOptions{
		Fields:    slices.Clone(domain.FieldOrder),
		Locations: slices.Clone(domain.LocationOptions),
		Genders:   slices.Clone(domain.GenderOptions),
		Employed:  slices.Clone(domain.EmployedOptions),
		Skills:    slices.Clone(domain.SkillOptions),
	}
}

// Count returns the number of open sessions
func (uc *FormSessions) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.sessions)
}

// Sweep drops sessions idle for longer than the configured TTL and returns
// how many were removed. A zero TTL disables eviction. Sessions busy with an
// operation are never idle, so Sweep does not wait on them.
func (uc *FormSessions) Sweep(now time.Time) int {
	if uc.cfg.TTL <= 0 {
		return 0
	}

	uc.mu.RLock()
	var stale []*formSession
	for _, s := range uc.sessions {
		if s.idle(now) > uc.cfg.TTL {
			stale = append(stale, s)
		}
	}
	uc.mu.RUnlock()
	if len(stale) == 0 {
		return 0
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	removed := 0
	for _, s := range stale {
		// recheck: the session may have been used or replaced meanwhile
		if uc.sessions[s.id] == s && s.idle(now) > uc.cfg.TTL {
			delete(uc.sessions, s.id)
			removed++
		}
	}
	return removed
}

// RunSweeper evicts idle sessions every interval until ctx is done
func (uc *FormSessions) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := uc.Sweep(now); n > 0 {
				uc.log.Info("Evicted idle form sessions", "count", n)
			}
		}
	}
}

func (uc *FormSessions) lookup(id string) (*formSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.NotFound("Application form not found")
	}
	uc.mu.RLock()
	s, ok := uc.sessions[id]
	uc.mu.RUnlock()
	if !ok {
		return nil, apperror.NotFound("Application form not found")
	}
	return s, nil
}

// idle reports how long the session has gone unused at now. A session whose
// lock is held is in use and reports zero.
func (s *formSession) idle(now time.Time) time.Duration {
	if !s.mu.TryLock() {
		return 0
	}
	defer s.mu.Unlock()
	return now.Sub(s.updatedAt)
}

// snapshot must be called with s.mu held
func (s *formSession) snapshot() *domain.FormSnapshot {
	snap := &domain.FormSnapshot{
		ID:        s.id,
		Values:    s.controller.Values(),
		Errors:    s.controller.Errors(),
		Submitted: s.submitted,
		UpdatedAt: s.updatedAt,
	}
	if snap.Values.Skills == nil {
		snap.Values.Skills = []string{}
	}
	if s.submitted {
		at := s.submittedAt
		snap.SubmittedAt = &at
	}
	return snap
}
