package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"go-application-form/internal/domain"
	"go-application-form/internal/sink"
	"go-application-form/pkg/validation"

	"gopkg.in/yaml.v3"
)

var fieldHelp = map[string]string{
	domain.FieldFullName:   "Letters and spaces only",
	domain.FieldPhone:      "Exactly 10 digits",
	domain.FieldDOB:        "YYYY-MM-DD",
	domain.FieldPortfolio:  "Optional, http:// or https://",
	domain.FieldExperience: "Years, decimals allowed",
}

// Runner drives an application form from a terminal
type Runner struct {
	form   domain.ApplicationForm
	driver PromptDriver
}

func NewRunner(form domain.ApplicationForm, driver PromptDriver) *Runner {
	return &Runner{form: form, driver: driver}
}

// LoadAnswers decodes a YAML answers file keyed by field name. Unknown keys
// are rejected so typos do not silently leave a field empty.
func LoadAnswers(r io.Reader) (domain.ApplicationRecord, error) {
	var record domain.ApplicationRecord
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&record); err != nil && !errors.Is(err, io.EOF) {
		return domain.ApplicationRecord{}, fmt.Errorf("decode answers: %w", err)
	}
	return record, nil
}

// Apply replays record into form as field-change events
func Apply(form domain.ApplicationForm, record domain.ApplicationRecord) error {
	scalars := map[string]string{
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
	for _, name := range domain.FieldOrder {
		value, ok := scalars[name]
		if !ok {
			continue
		}
		if err := form.UpdateField(name, value, domain.KindScalar); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	if err := syncSkills(form, record.Skills); err != nil {
		return err
	}
	return form.UpdateField(domain.FieldDeclaration, "", checkKind(record.Declaration))
}

// Submit submits the form once and prints the outcome
func (r *Runner) Submit(ctx context.Context) (bool, error) {
	ok, errs, err := r.form.Submit(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		return true, r.driver.Info(ctx, sink.Acknowledgment)
	}
	return false, r.printErrors(ctx, errs)
}

// Run prompts every field, submits, and re-prompts only the failing fields
// until the form is accepted or the user aborts.
func (r *Runner) Run(ctx context.Context) error {
	fields := domain.FieldOrder
	for {
		for _, name := range fields {
			if name == domain.FieldCompany && r.form.Values().Employed != domain.EmployedYes {
				continue
			}
			if err := r.promptField(ctx, name); err != nil {
				return err
			}
			// company becomes relevant the moment employed turns yes
			if name == domain.FieldEmployed && !slices.Contains(fields, domain.FieldCompany) &&
				r.form.Values().Employed == domain.EmployedYes {
				if err := r.promptField(ctx, domain.FieldCompany); err != nil {
					return err
				}
			}
		}

		ok, err := r.Submit(ctx)
		if err != nil || ok {
			return err
		}
		fields = r.form.Errors().Fields()
	}
}

func (r *Runner) printErrors(ctx context.Context, errs domain.ErrorSet) error {
	if err := r.driver.Info(ctx, "Please correct the following:"); err != nil {
		return err
	}
	for _, name := range errs.Fields() {
		if err := r.driver.Info(ctx, "  - "+errs[name]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) promptField(ctx context.Context, name string) error {
	values := r.form.Values()
	message := validation.FieldLabels[name] + ":"

	switch name {
	case domain.FieldAddress:
		v, err := r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: values.Address})
		if err != nil {
			return err
		}
		return r.form.UpdateField(name, v, domain.KindScalar)

	case domain.FieldLocation, domain.FieldGender, domain.FieldEmployed:
		options, current := selectOptions(name, values)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: slices.Index(options, current),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			return fmt.Errorf("select %s: option %d out of range", name, idx)
		}
		return r.form.UpdateField(name, options[idx], domain.KindScalar)

	case domain.FieldSkills:
		var defaults []int
		for i, skill := range domain.SkillOptions {
			if values.HasSkill(skill) {
				defaults = append(defaults, i)
			}
		}
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  domain.SkillOptions,
			Defaults: defaults,
		})
		if err != nil {
			return err
		}
		return syncSkills(r.form, optionsAt(domain.SkillOptions, picked))

	case domain.FieldDeclaration:
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: "I confirm that the above information is true.",
			Default: values.Declaration,
		})
		if err != nil {
			return err
		}
		return r.form.UpdateField(name, "", checkKind(ok))

	default:
		current, err := scalarValue(name, values)
		if err != nil {
			return err
		}
		v, err := r.driver.Input(ctx, InputConfig{Message: message, Default: current, Help: fieldHelp[name]})
		if err != nil {
			return err
		}
		return r.form.UpdateField(name, v, domain.KindScalar)
	}
}

func selectOptions(name string, values domain.ApplicationRecord) ([]string, string) {
	switch name {
	case domain.FieldLocation:
		return domain.LocationOptions, values.Location
	case domain.FieldGender:
		return domain.GenderOptions, values.Gender
	default:
		return domain.EmployedOptions, values.Employed
	}
}

func scalarValue(name string, values domain.ApplicationRecord) (string, error) {
	switch name {
	case domain.FieldFullName:
		return values.FullName, nil
	case domain.FieldEmail:
		return values.Email, nil
	case domain.FieldPhone:
		return values.Phone, nil
	case domain.FieldDOB:
		return values.DOB, nil
	case domain.FieldQualification:
		return values.Qualification, nil
	case domain.FieldPortfolio:
		return values.Portfolio, nil
	case domain.FieldExperience:
		return values.Experience, nil
	case domain.FieldCompany:
		return values.Company, nil
	}
	return "", fmt.Errorf("no prompt for field %q", name)
}

// syncSkills toggles skills so the selection ends up equal to want. Newly
// checked skills are appended in want order.
func syncSkills(form domain.ApplicationForm, want []string) error {
	for _, skill := range form.Values().Skills {
		if !slices.Contains(want, skill) {
			if err := form.UpdateField(domain.FieldSkills, skill, domain.KindUnchecked); err != nil {
				return err
			}
		}
	}
	for _, skill := range want {
		if form.Values().HasSkill(skill) {
			continue
		}
		if err := form.UpdateField(domain.FieldSkills, skill, domain.KindChecked); err != nil {
			return fmt.Errorf("apply skills: %w", err)
		}
	}
	return nil
}

func checkKind(checked bool) domain.InputKind {
	if checked {
		return domain.KindChecked
	}
	return domain.KindUnchecked
}
