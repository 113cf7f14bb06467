package sink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go-application-form/internal/domain"
	"go-application-form/pkg/sanitize"
)

// Acknowledgment is the message shown to the applicant after a valid submit
const Acknowledgment = "Form submitted successfully!"

// LogSink acknowledges a submission and dumps the record to the log
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a sink that writes to log
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

// Emit logs the acknowledgment followed by the submitted record. Values are
// logged as submitted; fields carrying HTML markup are flagged in a separate
// warning so log viewers that render HTML can be checked.
func (s *LogSink) Emit(ctx context.Context, record domain.ApplicationRecord) error {
	s.log.InfoContext(ctx, Acknowledgment,
		slog.Group("form_data",
			slog.String(domain.FieldFullName, record.FullName),
			slog.String(domain.FieldEmail, record.Email),
			slog.String(domain.FieldPhone, record.Phone),
			slog.String(domain.FieldDOB, record.DOB),
			slog.String(domain.FieldAddress, record.Address),
			slog.String(domain.FieldQualification, record.Qualification),
			slog.String(domain.FieldPortfolio, record.Portfolio),
			slog.String(domain.FieldLocation, record.Location),
			slog.String(domain.FieldGender, record.Gender),
			slog.String(domain.FieldExperience, record.Experience),
			slog.String(domain.FieldEmployed, record.Employed),
			slog.String(domain.FieldCompany, record.Company),
			slog.String(domain.FieldSkills, strings.Join(record.Skills, ",")),
			slog.Bool(domain.FieldDeclaration, record.Declaration),
		),
	)
	if fields := sanitize.MarkupFields(domain.FieldOrder, textValues(record)); len(fields) > 0 {
		s.log.WarnContext(ctx, "Submitted application contains markup", "fields", fields)
	}
	return nil
}

func textValues(record domain.ApplicationRecord) map[string]string {
	return map[string]string{
		domain.FieldFullName:      record.FullName,
		domain.FieldEmail:         record.Email,
		domain.FieldPhone:         record.Phone,
		domain.FieldDOB:           record.DOB,
		domain.FieldAddress:       record.Address,
		domain.FieldQualification: record.Qualification,
		domain.FieldPortfolio:     record.Portfolio,
		domain.FieldLocation:      record.Location,
		domain.FieldGender:        record.Gender,
		domain.FieldExperience:    record.Experience,
		domain.FieldEmployed:      record.Employed,
		domain.FieldCompany:       record.Company,
	}
}

// FuncSink adapts a plain function to the Sink interface
type FuncSink func(ctx context.Context, record domain.ApplicationRecord) error

func (f FuncSink) Emit(ctx context.Context, record domain.ApplicationRecord) error {
	return f(ctx, record)
}

// MultiSink emits to each sink in order and stops at the first failure
type MultiSink []domain.Sink

func (m MultiSink) Emit(ctx context.Context, record domain.ApplicationRecord) error {
	for i, s := range m {
		if err := s.Emit(ctx, record.Clone()); err != nil {
			return fmt.Errorf("sink %d: %w", i, err)
		}
	}
	return nil
}
