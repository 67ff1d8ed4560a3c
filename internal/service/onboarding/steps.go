package onboarding

import (
	"strings"

	"carbonpay/internal/domain"
)

// Step is one page of the onboarding wizard.
type Step struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	valid       func(domain.OnboardingForm) bool
}

// IsValid reports whether form satisfies this step's required fields.
func (s Step) IsValid(form domain.OnboardingForm) bool {
	return s.valid(form)
}

var steps = []Step{
	{
		ID:          "personal",
		Title:       "Personal Information",
		Description: "Let's start with your basic information",
		valid: func(f domain.OnboardingForm) bool {
			return filled(f.Name)
		},
	},
	{
		ID:          "company",
		Title:       "Company Details",
		Description: "Tell us about your company",
		valid: func(f domain.OnboardingForm) bool {
			return filled(f.CompanyName, f.Country, f.RegistrationNumber)
		},
	},
	{
		ID:          "company-context",
		Title:       "Company Context",
		Description: "Help us understand your business better",
		valid: func(f domain.OnboardingForm) bool {
			return filled(f.Industry, f.CompanySize, f.CompanyDescription)
		},
	},
	{
		ID:          "emissions-basic",
		Title:       "Emissions Overview",
		Description: "Let's understand your current emissions situation",
		valid: func(f domain.OnboardingForm) bool {
			return f.HasEmissionsHistory != nil && len(f.PrimaryEmissionSources) > 0
		},
	},
	{
		ID:          "emissions-detail",
		Title:       "Emissions Details",
		Description: "More specific information about your emissions",
		valid: func(f domain.OnboardingForm) bool {
			return len(f.SustainabilityPrograms) > 0 && filled(f.OffsettingExperience)
		},
	},
}

// Steps returns the wizard steps in order.
func Steps() []Step {
	return append([]Step(nil), steps...)
}

func filled(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Options are the fixed choices offered by the select and checkbox fields.
type Options struct {
	CompanySizes           []string `json:"companySizes"`
	Industries             []string `json:"industries"`
	EmissionSources        []string `json:"emissionSources"`
	SustainabilityPrograms []string `json:"sustainabilityPrograms"`
}

var options = Options{
	CompanySizes: []string{
		"1-10 employees",
		"11-50 employees",
		"51-200 employees",
		"201-500 employees",
		"501-1000 employees",
		"1000+ employees",
	},
	Industries: []string{
		"Technology",
		"Manufacturing",
		"Energy",
		"Transportation",
		"Agriculture",
		"Construction",
		"Healthcare",
		"Retail",
		"Financial Services",
		"Other",
	},
	EmissionSources: []string{
		"Electricity consumption",
		"Transportation fleet",
		"Manufacturing processes",
		"Business travel",
		"Supply chain",
		"Waste management",
		"Building operations",
		"Employee commuting",
	},
	SustainabilityPrograms: []string{
		"ISO 14001 certification",
		"Carbon disclosure project (CDP)",
		"Science-based targets initiative",
		"Internal sustainability programs",
		"Green building certification",
		"Renewable energy procurement",
		"None currently",
	},
}

// FieldOptions returns a copy of the option lists.
func FieldOptions() Options {
	return Options{
		CompanySizes:           append([]string(nil), options.CompanySizes...),
		Industries:             append([]string(nil), options.Industries...),
		EmissionSources:        append([]string(nil), options.EmissionSources...),
		SustainabilityPrograms: append([]string(nil), options.SustainabilityPrograms...),
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
