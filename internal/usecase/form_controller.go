package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"go-application-form/internal/domain"
	"go-application-form/pkg/apperror"
	"go-application-form/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// FormController owns one application record and the errors derived from it.
// It is not safe for concurrent use; callers serialize access.
type FormController struct {
	record   domain.ApplicationRecord
	errors   domain.ErrorSet
	sink     domain.Sink
	validate *validator.Validate
	log      *slog.Logger
}

var _ domain.ApplicationForm = (*FormController)(nil)

// NewFormController creates a controller with an empty record. A nil
// validate gets the default application validator.
func NewFormController(sink domain.Sink, validate *validator.Validate, log *slog.Logger) *FormController {
	if validate == nil {
		validate = validation.New()
	}
	if log == nil {
		log = slog.Default()
	}
	return &FormController{
		errors:   domain.ErrorSet{},
		sink:     sink,
		validate: validate,
		log:      log,
	}
}

// UpdateField applies one field-change event. It never re-validates, so
// errors from the last validation stay visible until the next one.
func (fc *FormController) UpdateField(name, raw string, kind domain.InputKind) error {
	switch name {
	case domain.FieldSkills:
		return fc.toggleSkill(raw, kind)
	case domain.FieldDeclaration:
		switch kind {
		case domain.KindChecked:
			fc.record.Declaration = true
		case domain.KindUnchecked:
			fc.record.Declaration = false
		default:
			return apperror.BadRequest("declaration is a checkbox and needs kind checked or unchecked")
		}
		return nil
	}

	if kind != domain.KindScalar {
		return apperror.BadRequest(fmt.Sprintf("%s does not accept kind %q", name, kind))
	}

	field := fc.scalarField(name)
	if field == nil {
		return apperror.BadRequest(fmt.Sprintf("unknown field %q", name))
	}
	*field = raw
	return nil
}

func (fc *FormController) toggleSkill(skill string, kind domain.InputKind) error {
	if !slices.Contains(domain.SkillOptions, skill) {
		return apperror.BadRequest(fmt.Sprintf("unknown skill %q", skill))
	}

	switch kind {
	case domain.KindChecked:
		if !fc.record.HasSkill(skill) {
			fc.record.Skills = append(fc.record.Skills, skill)
		}
	case domain.KindUnchecked:
		fc.record.Skills = slices.DeleteFunc(fc.record.Skills, func(s string) bool {
			return s == skill
		})
	default:
		return apperror.BadRequest("skills are checkboxes and need kind checked or unchecked")
	}
	return nil
}

func (fc *FormController) scalarField(name string) *string {
	r := &fc.record
	switch name {
	case domain.FieldFullName:
		return &r.FullName
	case domain.FieldEmail:
		return &r.Email
	case domain.FieldPhone:
		return &r.Phone
	case domain.FieldDOB:
		return &r.DOB
	case domain.FieldAddress:
		return &r.Address
	case domain.FieldQualification:
		return &r.Qualification
	case domain.FieldPortfolio:
		return &r.Portfolio
	case domain.FieldLocation:
		return &r.Location
	case domain.FieldGender:
		return &r.Gender
	case domain.FieldExperience:
		return &r.Experience
	case domain.FieldEmployed:
		return &r.Employed
	case domain.FieldCompany:
		return &r.Company
	}
	return nil
}

// Validate runs every field rule, replaces the stored errors with the fresh
// result and reports whether the record is valid.
func (fc *FormController) Validate() (bool, domain.ErrorSet) {
	errs := validation.ToErrorSet(fc.validate.Struct(fc.record))
	fc.errors = errs
	return len(errs) == 0, errs.Clone()
}

// Submit validates and, when valid, hands a copy of the record to the sink.
// The record is left populated afterwards.
func (fc *FormController) Submit(ctx context.Context) (bool, domain.ErrorSet, error) {
	valid, errs := fc.Validate()
	if !valid {
		fc.log.DebugContext(ctx, "Form submit rejected", "fields", errs.Fields())
		return false, errs, nil
	}

	if fc.sink != nil {
		if err := fc.sink.Emit(ctx, fc.record.Clone()); err != nil {
			return true, errs, apperror.New(http.StatusInternalServerError, "Failed to submit application", fmt.Errorf("emit application: %w", err))
		}
	}
	return true, errs, nil
}

// Reset clears the record and the errors
func (fc *FormController) Reset() {
	fc.record = domain.ApplicationRecord{}
	fc.errors = domain.ErrorSet{}
}

// Values returns a copy of the current record
func (fc *FormController) Values() domain.ApplicationRecord {
	return fc.record.Clone()
}

// Errors returns a copy of the errors from the last validation
func (fc *FormController) Errors() domain.ErrorSet {
	return fc.errors.Clone()
}

// Error returns the active message for one field
func (fc *FormController) Error(field string) (string, bool) {
	msg, ok := fc.errors[field]
	return msg, ok
}
