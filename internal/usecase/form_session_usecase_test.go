package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go-application-form/internal/domain"
	"go-application-form/internal/sink"
	"go-application-form/internal/usecase"
	"go-application-form/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUpdates() []domain.FieldUpdate {
	return []domain.FieldUpdate{
		{Name: domain.FieldFullName, Value: "John Doe"},
		{Name: domain.FieldEmail, Value: "john@example.com"},
		{Name: domain.FieldPhone, Value: "1234567890"},
		{Name: domain.FieldDOB, Value: "1990-01-01"},
		{Name: domain.FieldAddress, Value: "1 Main St"},
		{Name: domain.FieldQualification, Value: "BSc"},
		{Name: domain.FieldLocation, Value: "Remote"},
		{Name: domain.FieldGender, Value: "Male"},
		{Name: domain.FieldExperience, Value: "3"},
		{Name: domain.FieldEmployed, Value: "no"},
		{Name: domain.FieldSkills, Value: "React", Kind: domain.KindChecked},
		{Name: domain.FieldDeclaration, Kind: domain.KindChecked},
	}
}

func assertAppErrCode(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestFormSessionsLifecycle(t *testing.T) {
	ctx := context.Background()
	var emitted []domain.ApplicationRecord
	collect := sink.FuncSink(func(_ context.Context, r domain.ApplicationRecord) error {
		emitted = append(emitted, r)
		return nil
	})
	uc := usecase.NewFormSessionUsecase(collect, nil, quietLogger(), usecase.SessionConfig{})

	snap, err := uc.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, []string{}, snap.Values.Skills)
	assert.Empty(t, snap.Errors)
	assert.Equal(t, 1, uc.Count())

	_, result, err := uc.Submit(ctx, snap.ID)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 12)
	assert.Empty(t, emitted)

	snap, err = uc.UpdateFields(ctx, snap.ID, validUpdates())
	require.NoError(t, err)
	assert.Equal(t, "John Doe", snap.Values.FullName)
	// errors from the failed submit are still visible
	assert.Len(t, snap.Errors, 12)

	snap, result, err = uc.Submit(ctx, snap.ID)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, snap.Errors)
	assert.True(t, snap.Submitted)
	require.NotNil(t, snap.SubmittedAt)
	require.Len(t, emitted, 1)
	assert.Equal(t, "john@example.com", emitted[0].Email)

	snap, err = uc.Reset(ctx, snap.ID)
	require.NoError(t, err)
	assert.False(t, snap.Submitted)
	assert.Empty(t, snap.Values.FullName)

	require.NoError(t, uc.Delete(ctx, snap.ID))
	_, err = uc.Get(ctx, snap.ID)
	assertAppErrCode(t, err, http.StatusNotFound)
}

func TestFormSessionsValidate(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewFormSessionUsecase(nil, nil, quietLogger(), usecase.SessionConfig{})
	snap, err := uc.Create(ctx)
	require.NoError(t, err)

	_, err = uc.UpdateFields(ctx, snap.ID, validUpdates())
	require.NoError(t, err)
	_, err = uc.UpdateFields(ctx, snap.ID, []domain.FieldUpdate{{Name: domain.FieldEmail, Value: "bad-email"}})
	require.NoError(t, err)

	result, err := uc.Validate(ctx, snap.ID)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, domain.ErrorSet{domain.FieldEmail: "Invalid email format"}, result.Errors)

	got, err := uc.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Errors, got.Errors)
}

func TestFormSessionsRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewFormSessionUsecase(nil, nil, quietLogger(), usecase.SessionConfig{})
	snap, err := uc.Create(ctx)
	require.NoError(t, err)

	t.Run("unknown session", func(t *testing.T) {
		_, err := uc.Get(ctx, "not-a-uuid")
		assertAppErrCode(t, err, http.StatusNotFound)
		_, _, err = uc.Submit(ctx, "6f1c2d9e-1111-4a5b-8c7d-000000000000")
		assertAppErrCode(t, err, http.StatusNotFound)
		assertAppErrCode(t, uc.Delete(ctx, "6f1c2d9e-1111-4a5b-8c7d-000000000000"), http.StatusNotFound)
	})

	t.Run("bad kind stops the batch", func(t *testing.T) {
		_, err := uc.UpdateFields(ctx, snap.ID, []domain.FieldUpdate{
			{Name: domain.FieldFullName, Value: "Jane"},
			{Name: domain.FieldSkills, Value: "React", Kind: "toggled"},
			{Name: domain.FieldEmail, Value: "jane@example.com"},
		})
		assertAppErrCode(t, err, http.StatusBadRequest)

		got, err := uc.Get(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.Values.FullName)
		assert.Empty(t, got.Values.Email)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := uc.UpdateFields(ctx, snap.ID, []domain.FieldUpdate{{Name: "salary", Value: "1"}})
		assertAppErrCode(t, err, http.StatusBadRequest)
	})
}

func TestFormSessionsLimits(t *testing.T) {
	ctx := context.Background()

	t.Run("max sessions", func(t *testing.T) {
		uc := usecase.NewFormSessionUsecase(nil, nil, quietLogger(), usecase.SessionConfig{MaxSessions: 2})
		_, err := uc.Create(ctx)
		require.NoError(t, err)
		_, err = uc.Create(ctx)
		require.NoError(t, err)
		_, err = uc.Create(ctx)
		assertAppErrCode(t, err, http.StatusServiceUnavailable)
	})

	t.Run("sweep evicts idle sessions", func(t *testing.T) {
		uc := usecase.NewFormSessionUsecase(nil, nil, quietLogger(), usecase.SessionConfig{TTL: time.Minute})
		snap, err := uc.Create(ctx)
		require.NoError(t, err)

		assert.Equal(t, 0, uc.Sweep(time.Now()))
		assert.Equal(t, 1, uc.Sweep(time.Now().Add(2*time.Minute)))
		_, err = uc.Get(ctx, snap.ID)
		assertAppErrCode(t, err, http.StatusNotFound)
	})

	t.Run("zero ttl never evicts", func(t *testing.T) {
		uc := usecase.NewFormSessionUsecase(nil, nil, quietLogger(), usecase.SessionConfig{})
		_, err := uc.Create(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, uc.Sweep(time.Now().Add(24*time.Hour)))
	})
}

func TestFormSessionsSweepSkipsBusySessions(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	slow := sink.FuncSink(func(context.Context, domain.ApplicationRecord) error {
		close(entered)
		<-release
		return nil
	})
	uc := usecase.NewFormSessionUsecase(slow, nil, quietLogger(), usecase.SessionConfig{TTL: time.Minute})

	busy, err := uc.Create(ctx)
	require.NoError(t, err)
	_, err = uc.UpdateFields(ctx, busy.ID, validUpdates())
	require.NoError(t, err)
	idle, err := uc.Create(ctx)
	require.NoError(t, err)

	submitted := make(chan error, 1)
	go func() {
		_, _, err := uc.Submit(ctx, busy.ID)
		submitted <- err
	}()
	<-entered

	// the sink is still blocked: the sweep and other sessions must not wait on it
	swept := make(chan int, 1)
	go func() { swept <- uc.Sweep(time.Now().Add(2 * time.Minute)) }()
	select {
	case n := <-swept:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("sweep blocked on a session in use")
	}

	_, err = uc.Get(ctx, idle.ID)
	assertAppErrCode(t, err, http.StatusNotFound)
	other, err := uc.Create(ctx)
	require.NoError(t, err)
	_, err = uc.Get(ctx, other.ID)
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-submitted)
	got, err := uc.Get(ctx, busy.ID)
	require.NoError(t, err)
	assert.True(t, got.Submitted)
}

func TestFormSessionsConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewFormSessionUsecase(nil, nil, quietLogger(), usecase.SessionConfig{})
	snap, err := uc.Create(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, skill := range domain.SkillOptions {
		wg.Add(1)
		go func(skill string) {
			defer wg.Done()
			_, err := uc.UpdateFields(ctx, snap.ID, []domain.FieldUpdate{{Name: domain.FieldSkills, Value: skill, Kind: domain.KindChecked}})
			assert.NoError(t, err)
		}(skill)
	}
	wg.Wait()

	got, err := uc.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, domain.SkillOptions, got.Values.Skills)
}

func TestFormSessionsOptions(t *testing.T) {
	uc := usecase.NewFormSessionUsecase(nil, nil, quietLogger(), usecase.SessionConfig{})
	opts := uc.Options()
	assert.Equal(t, domain.FieldOrder, opts.Fields)
	assert.Equal(t, []string{"Hyderabad", "Bangalore", "Pune", "Remote"}, opts.Locations)

	opts.Skills[0] = "Go"
	assert.Equal(t, "React", domain.SkillOptions[0])
}

func TestHealthUsecase(t *testing.T) {
	uc := usecase.NewFormSessionUsecase(nil, nil, quietLogger(), usecase.SessionConfig{})
	_, err := uc.Create(context.Background())
	require.NoError(t, err)

	health := usecase.NewHealthUsecase(uc, func(context.Context) error { return errors.New("down") })
	status := health.Check(context.Background())

	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "1", status["form_sessions"])
	assert.Equal(t, "unavailable", status["redis"])
}
