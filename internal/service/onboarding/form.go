package onboarding

import (
	"encoding/json"
	"errors"
	"fmt"

	"carbonpay/internal/domain"
)

var (
	ErrUnknownField = errors.New("unknown form field")
	ErrInvalidValue = errors.New("invalid form value")
)

// Patch is a set of field edits keyed by the form's JSON field names.
// A null value clears the field.
type Patch map[string]json.RawMessage

type fieldSetter func(f *domain.OnboardingForm, raw json.RawMessage) error

var fieldSetters = map[string]fieldSetter{
	"name":                   stringField(func(f *domain.OnboardingForm) *string { return &f.Name }, nil),
	"companyName":            stringField(func(f *domain.OnboardingForm) *string { return &f.CompanyName }, nil),
	"country":                stringField(func(f *domain.OnboardingForm) *string { return &f.Country }, nil),
	"registrationNumber":     stringField(func(f *domain.OnboardingForm) *string { return &f.RegistrationNumber }, nil),
	"companySize":            stringField(func(f *domain.OnboardingForm) *string { return &f.CompanySize }, options.CompanySizes),
	"industry":               stringField(func(f *domain.OnboardingForm) *string { return &f.Industry }, options.Industries),
	"companyDescription":     stringField(func(f *domain.OnboardingForm) *string { return &f.CompanyDescription }, nil),
	"hasEmissionsHistory":    boolField(func(f *domain.OnboardingForm) **bool { return &f.HasEmissionsHistory }),
	"primaryEmissionSources": setField(func(f *domain.OnboardingForm) *[]string { return &f.PrimaryEmissionSources }, options.EmissionSources),
	"annualEmissions":        numberField(func(f *domain.OnboardingForm) **float64 { return &f.AnnualEmissions }),
	"emissionsReductionGoal": numberField(func(f *domain.OnboardingForm) **float64 { return &f.EmissionsReductionGoal }),
	"sustainabilityPrograms": setField(func(f *domain.OnboardingForm) *[]string { return &f.SustainabilityPrograms }, options.SustainabilityPrograms),
	"offsettingExperience":   stringField(func(f *domain.OnboardingForm) *string { return &f.OffsettingExperience }, nil),
}

// ApplyPatch merges the edits into a copy of form. Either every edit applies
// or form is returned unchanged with an error.
func ApplyPatch(form domain.OnboardingForm, patch Patch) (domain.OnboardingForm, error) {
	out := form.Clone()
	for field, raw := range patch {
		set, ok := fieldSetters[field]
		if !ok {
			return form, fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if err := set(&out, raw); err != nil {
			if errors.Is(err, ErrInvalidValue) {
				return form, err
			}
			return form, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
		}
	}
	return out, nil
}

func stringField(at func(*domain.OnboardingForm) *string, allowed []string) fieldSetter {
	return func(f *domain.OnboardingForm, raw json.RawMessage) error {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if v == nil {
			*at(f) = ""
			return nil
		}
		if allowed != nil && *v != "" && !contains(allowed, *v) {
			return fmt.Errorf("%w: %q is not an allowed option", ErrInvalidValue, *v)
		}
		*at(f) = *v
		return nil
	}
}

func boolField(at func(*domain.OnboardingForm) **bool) fieldSetter {
	return func(f *domain.OnboardingForm, raw json.RawMessage) error {
		var v *bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*at(f) = v
		return nil
	}
}

func numberField(at func(*domain.OnboardingForm) **float64) fieldSetter {
	return func(f *domain.OnboardingForm, raw json.RawMessage) error {
		var v *float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: negative number", ErrInvalidValue)
		}
		*at(f) = v
		return nil
	}
}

func setField(at func(*domain.OnboardingForm) *[]string, allowed []string) fieldSetter {
	return func(f *domain.OnboardingForm, raw json.RawMessage) error {
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		for _, item := range v {
			if !contains(allowed, item) {
				return fmt.Errorf("%w: %q is not an allowed option", ErrInvalidValue, item)
			}
		}
		*at(f) = dedupe(v)
		return nil
	}
}

// dedupe keeps the first occurrence of each value, preserving order.
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
