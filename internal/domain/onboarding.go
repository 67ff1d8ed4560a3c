package domain

import "time"

// OnboardingForm is the company and emissions profile collected by the wizard.
// Fields are filled step by step; only the submission checks completeness.
type OnboardingForm struct {
	Name               string `json:"name"`
	CompanyName        string `json:"companyName"`
	Country            string `json:"country"`
	RegistrationNumber string `json:"registrationNumber"`
	CompanySize        string `json:"companySize"`
	Industry           string `json:"industry"`
	CompanyDescription string `json:"companyDescription"`

	HasEmissionsHistory    *bool    `json:"hasEmissionsHistory,omitempty"`
	PrimaryEmissionSources []string `json:"primaryEmissionSources"`
	AnnualEmissions        *float64 `json:"annualEmissions,omitempty"`
	EmissionsReductionGoal *float64 `json:"emissionsReductionGoal,omitempty"`
	SustainabilityPrograms []string `json:"sustainabilityPrograms"`
	OffsettingExperience   string   `json:"offsettingExperience"`
}

// Clone returns a deep copy so callers never share slices or pointers.
func (f OnboardingForm) Clone() OnboardingForm {
	out := f
	if f.HasEmissionsHistory != nil {
		v := *f.HasEmissionsHistory
		out.HasEmissionsHistory = &v
	}
	if f.AnnualEmissions != nil {
		v := *f.AnnualEmissions
		out.AnnualEmissions = &v
	}
	if f.EmissionsReductionGoal != nil {
		v := *f.EmissionsReductionGoal
		out.EmissionsReductionGoal = &v
	}
	out.PrimaryEmissionSources = append([]string(nil), f.PrimaryEmissionSources...)
	out.SustainabilityPrograms = append([]string(nil), f.SustainabilityPrograms...)
	return out
}

// OnboardingRecord is a completed onboarding as stored.
type OnboardingRecord struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	OnboardingForm
}
