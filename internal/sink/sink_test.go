package sink_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"go-application-form/internal/domain"
	"go-application-form/internal/sink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() domain.ApplicationRecord {
	return domain.ApplicationRecord{
		FullName:    "John Doe",
		Email:       "john@example.com",
		Skills:      []string{"React", "SQL"},
		Declaration: true,
	}
}

func TestLogSinkDumpsRecord(t *testing.T) {
	var buf bytes.Buffer
	s := sink.NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, s.Emit(context.Background(), sampleRecord()))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, sink.Acknowledgment, entry["msg"])
	data, ok := entry["form_data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "John Doe", data["fullName"])
	assert.Equal(t, "React,SQL", data["skills"])
	assert.Equal(t, true, data["declaration"])
}

func TestLogSinkFlagsMarkup(t *testing.T) {
	var buf bytes.Buffer
	s := sink.NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	rec := sampleRecord()
	rec.Address = "Block A <near park> Springfield"
	require.NoError(t, s.Emit(context.Background(), rec))

	dec := json.NewDecoder(&buf)
	var dump, warn map[string]any
	require.NoError(t, dec.Decode(&dump))
	require.NoError(t, dec.Decode(&warn))

	data, ok := dump["form_data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Block A <near park> Springfield", data["address"], "values are logged as submitted")

	assert.Equal(t, "WARN", warn["level"])
	assert.Equal(t, []any{"address"}, warn["fields"])
}

func TestLogSinkNoMarkupNoWarning(t *testing.T) {
	var buf bytes.Buffer
	s := sink.NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, s.Emit(context.Background(), sampleRecord()))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestMultiSink(t *testing.T) {
	var calls []string
	record := func(name string, err error) domain.Sink {
		return sink.FuncSink(func(_ context.Context, r domain.ApplicationRecord) error {
			calls = append(calls, name)
			r.Skills[0] = "mutated"
			return err
		})
	}

	t.Run("emits in order", func(t *testing.T) {
		calls = nil
		m := sink.MultiSink{record("a", nil), record("b", nil)}
		rec := sampleRecord()
		require.NoError(t, m.Emit(context.Background(), rec))
		assert.Equal(t, []string{"a", "b"}, calls)
		assert.Equal(t, "React", rec.Skills[0])
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		calls = nil
		m := sink.MultiSink{record("a", errors.New("down")), record("b", nil)}
		err := m.Emit(context.Background(), sampleRecord())
		assert.ErrorContains(t, err, "sink 0: down")
		assert.Equal(t, []string{"a"}, calls)
	})
}
