package domain

import (
	"context"
	"slices"
	"time"
)

// Field names as they appear in JSON payloads, HTML inputs and ErrorSet keys
const (
	FieldFullName      = "fullName"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldDOB           = "dob"
	FieldAddress       = "address"
	FieldQualification = "qualification"
	FieldPortfolio     = "portfolio"
	FieldLocation      = "location"
	FieldGender        = "gender"
	FieldExperience    = "experience"
	FieldEmployed      = "employed"
	FieldCompany       = "company"
	FieldSkills        = "skills"
	FieldDeclaration   = "declaration"
)

// FieldOrder is the canonical order fields are validated and rendered in
var FieldOrder = []string{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldDOB,
	FieldAddress,
	FieldQualification,
	FieldPortfolio,
	FieldLocation,
	FieldGender,
	FieldExperience,
	FieldEmployed,
	FieldCompany,
	FieldSkills,
	FieldDeclaration,
}

// Employment status values
const (
	EmployedYes = "yes"
	EmployedNo  = "no"
)

// Option lists offered by the form
var (
	LocationOptions = []string{"Hyderabad", "Bangalore", "Pune", "Remote"}
	GenderOptions   = []string{"Male", "Female", "Other"}
	EmployedOptions = []string{EmployedYes, EmployedNo}
	SkillOptions    = []string{"React", "Python", "Java", "SQL", "AWS"}
)

// ApplicationRecord is the working state of one job application form.
// Validation rules live in the validate tags; the conditional company rule is
// registered as a struct-level validation in pkg/validation.
type ApplicationRecord struct {
	FullName      string   `json:"fullName" yaml:"fullName" validate:"notblank,letters_spaces"`
	Email         string   `json:"email" yaml:"email" validate:"notblank,simple_email"`
	Phone         string   `json:"phone" yaml:"phone" validate:"notblank,ten_digits"`
	DOB           string   `json:"dob" yaml:"dob" validate:"required"`
	Address       string   `json:"address" yaml:"address" validate:"notblank"`
	Qualification string   `json:"qualification" yaml:"qualification" validate:"notblank"`
	Portfolio     string   `json:"portfolio" yaml:"portfolio" validate:"omitempty,http_url"`
	Location      string   `json:"location" yaml:"location" validate:"required,oneof=Hyderabad Bangalore Pune Remote"`
	Gender        string   `json:"gender" yaml:"gender" validate:"required,oneof=Male Female Other"`
	Experience    string   `json:"experience" yaml:"experience" validate:"notblank,non_negative_number"`
	Employed      string   `json:"employed" yaml:"employed" validate:"required,oneof=yes no"`
	Company       string   `json:"company" yaml:"company"`
	Skills        []string `json:"skills" yaml:"skills" validate:"required,min=1,dive,oneof=React Python Java SQL AWS"`
	Declaration   bool     `json:"declaration" yaml:"declaration" validate:"required"`
}

// Clone returns a deep copy so callers never share the skills slice
func (r ApplicationRecord) Clone() ApplicationRecord {
	out := r
	if r.Skills != nil {
		out.Skills = slices.Clone(r.Skills)
	}
	return out
}

// HasSkill reports whether skill is currently selected
func (r ApplicationRecord) HasSkill(skill string) bool {
	return slices.Contains(r.Skills, skill)
}

// ErrorSet maps a field name to its currently active validation message.
// A key is present only while the field fails its rule.
type ErrorSet map[string]string

// Clone returns an independent copy of the set
func (e ErrorSet) Clone() ErrorSet {
	out := make(ErrorSet, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Fields returns the failing field names in canonical form order
func (e ErrorSet) Fields() []string {
	fields := make([]string, 0, len(e))
	for _, name := range FieldOrder {
		if _, ok := e[name]; ok {
			fields = append(fields, name)
		}
	}
	return fields
}

// InputKind tells UpdateField how to interpret the raw value
type InputKind string

const (
	// KindScalar replaces a text, select, radio, date or number field
	KindScalar InputKind = "scalar"
	// KindChecked marks a checkbox as checked (skills value or declaration)
	KindChecked InputKind = "checked"
	// KindUnchecked marks a checkbox as unchecked
	KindUnchecked InputKind = "unchecked"
)

// ParseInputKind maps a wire value onto an InputKind. Empty means scalar.
func ParseInputKind(s string) (InputKind, bool) {
	switch InputKind(s) {
	case "", KindScalar:
		return KindScalar, true
	case KindChecked, KindUnchecked:
		return InputKind(s), true
	}
	return "", false
}

// Sink receives a successfully validated application record
type Sink interface {
	Emit(ctx context.Context, record ApplicationRecord) error
}

// ApplicationForm is the controller contract presentation layers drive:
// field-change events in, values and errors out, submit on demand.
type ApplicationForm interface {
	UpdateField(name, raw string, kind InputKind) error
	Validate() (bool, ErrorSet)
	Submit(ctx context.Context) (bool, ErrorSet, error)
	Values() ApplicationRecord
	Errors() ErrorSet
}

// FieldUpdate is one field-change event
type FieldUpdate struct {
	Name  string    `json:"name" binding:"required"`
	Value string    `json:"value"`
	Kind  InputKind `json:"kind"`
}

// FormSnapshot is the read view of a form session handed to presentation layers
type FormSnapshot struct {
	ID          string            `json:"id"`
	Values      ApplicationRecord `json:"values"`
	Errors      ErrorSet          `json:"errors"`
	Submitted   bool              `json:"submitted"`
	SubmittedAt *time.Time        `json:"submitted_at,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ValidationResult is returned by validate and submit operations
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors ErrorSet `json:"errors"`
}

// FormOptions describes the selectable values the form offers
type FormOptions struct {
	Fields    []string `json:"fields"`
	Locations []string `json:"locations"`
	Genders   []string `json:"genders"`
	Employed  []string `json:"employed"`
	Skills    []string `json:"skills"`
}

// FormSessionUsecase manages one form controller per client session
type FormSessionUsecase interface {
	Create(ctx context.Context) (*FormSnapshot, error)
	Get(ctx context.Context, id string) (*FormSnapshot, error)
	UpdateFields(ctx context.Context, id string, updates []FieldUpdate) (*FormSnapshot, error)
	Validate(ctx context.Context, id string) (*ValidationResult, error)
	Submit(ctx context.Context, id string) (*FormSnapshot, *ValidationResult, error)
	Reset(ctx context.Context, id string) (*FormSnapshot, error)
	Delete(ctx context.Context, id string) error
	Options() FormOptions
}
