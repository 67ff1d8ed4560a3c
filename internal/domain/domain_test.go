package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectValidate(t *testing.T) {
	ok := Project{ID: "1", TotalCapacity: 1000, AvailableCapacity: 800, PricePerTon: 20}
	require.NoError(t, ok.Validate())

	over := ok
	over.AvailableCapacity = 1001
	assert.Error(t, over.Validate())

	noID := ok
	noID.ID = ""
	assert.Error(t, noID.Validate())
}

func TestCarbonCreditValidate(t *testing.T) {
	require.NoError(t, CarbonCredit{ID: "1", TotalAmount: 1000, AvailableAmount: 800, UsedAmount: 200}.Validate())
	assert.Error(t, CarbonCredit{ID: "1", TotalAmount: 1000, AvailableAmount: 800, UsedAmount: 100}.Validate())
}

func TestEmissionValidate(t *testing.T) {
	require.NoError(t, Emission{ID: "1", Amount: 250, Offset: 250}.Validate())
	assert.Error(t, Emission{ID: "1", Amount: 250, Offset: 251}.Validate())
}

func TestOnboardingFormClone(t *testing.T) {
	yes := true
	form := OnboardingForm{
		Name:                   "A",
		HasEmissionsHistory:    &yes,
		PrimaryEmissionSources: []string{"Supply chain"},
	}

	clone := form.Clone()
	*clone.HasEmissionsHistory = false
	clone.PrimaryEmissionSources[0] = "Business travel"

	assert.True(t, *form.HasEmissionsHistory)
	assert.Equal(t, "Supply chain", form.PrimaryEmissionSources[0])
}
