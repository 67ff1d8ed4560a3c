package onboarding

import (
	"testing"

	"carbonpay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSteps_Order(t *testing.T) {
	ids := make([]string, 0, 5)
	for _, s := range Steps() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"personal", "company", "company-context", "emissions-basic", "emissions-detail"}, ids)
}

func TestSteps_Predicates(t *testing.T) {
	s := Steps()
	no := false

	assert.False(t, s[0].IsValid(domain.OnboardingForm{}))
	assert.False(t, s[0].IsValid(domain.OnboardingForm{Name: "   "}))
	assert.True(t, s[0].IsValid(domain.OnboardingForm{Name: "A"}))

	assert.False(t, s[1].IsValid(domain.OnboardingForm{CompanyName: "B", Country: "C"}))
	assert.True(t, s[1].IsValid(domain.OnboardingForm{CompanyName: "B", Country: "C", RegistrationNumber: "D"}))

	assert.False(t, s[2].IsValid(domain.OnboardingForm{Industry: "Energy", CompanySize: "1-10 employees"}))
	assert.True(t, s[2].IsValid(domain.OnboardingForm{Industry: "Energy", CompanySize: "1-10 employees", CompanyDescription: "x"}))

	assert.False(t, s[3].IsValid(domain.OnboardingForm{PrimaryEmissionSources: []string{"Supply chain"}}))
	assert.False(t, s[3].IsValid(domain.OnboardingForm{HasEmissionsHistory: &no}))
	assert.True(t, s[3].IsValid(domain.OnboardingForm{HasEmissionsHistory: &no, PrimaryEmissionSources: []string{"Supply chain"}}))

	assert.False(t, s[4].IsValid(domain.OnboardingForm{SustainabilityPrograms: []string{"None currently"}}))
	assert.True(t, s[4].IsValid(domain.OnboardingForm{SustainabilityPrograms: []string{"None currently"}, OffsettingExperience: "none"}))
}

func TestFieldOptions(t *testing.T) {
	opts := FieldOptions()
	require.Len(t, opts.CompanySizes, 6)
	require.Len(t, opts.Industries, 10)
	require.Len(t, opts.EmissionSources, 8)
	require.Len(t, opts.SustainabilityPrograms, 7)

	opts.Industries[0] = "changed"
	assert.Equal(t, "Technology", FieldOptions().Industries[0])
}
