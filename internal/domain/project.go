package domain

import "fmt"

// ProjectType is the category an offset project belongs to.
type ProjectType string

const (
	ProjectTypeSolar        ProjectType = "Solar Energy"
	ProjectTypePreservation ProjectType = "Preservation"
)

// Project is an offset project that issues credits.
type Project struct {
	ID                string      `json:"id" yaml:"id"`
	Name              string      `json:"name" yaml:"name"`
	Type              ProjectType `json:"type" yaml:"type"`
	Location          string      `json:"location" yaml:"location"`
	Image             string      `json:"image" yaml:"image"`
	PricePerTon       float64     `json:"pricePerTon" yaml:"pricePerTon"`
	TotalCapacity     int         `json:"totalCapacity" yaml:"totalCapacity"`
	AvailableCapacity int         `json:"availableCapacity" yaml:"availableCapacity"`
	Code              string      `json:"code" yaml:"code"`
}

// Validate checks the capacity invariant.
func (p Project) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("project %q: id required", p.Name)
	}
	if p.AvailableCapacity < 0 || p.AvailableCapacity > p.TotalCapacity {
		return fmt.Errorf("project %s: available capacity %d outside [0, %d]", p.ID, p.AvailableCapacity, p.TotalCapacity)
	}
	if p.PricePerTon < 0 {
		return fmt.Errorf("project %s: negative price", p.ID)
	}
	return nil
}

// ProjectDetails is the registry-level description shown in the details view.
type ProjectDetails struct {
	ID               string  `json:"id" yaml:"id"`
	Name             string  `json:"name" yaml:"name"`
	RegistryID       string  `json:"registryId" yaml:"registryId"`
	Location         string  `json:"location" yaml:"location"`
	Type             string  `json:"type" yaml:"type"`
	CreditsIssued    int     `json:"creditsIssued" yaml:"creditsIssued"`
	CreditsAvailable int     `json:"creditsAvailable" yaml:"creditsAvailable"`
	VintageYear      string  `json:"vintageYear" yaml:"vintageYear"`
	Certification    string  `json:"certification" yaml:"certification"`
	Verifier         string  `json:"verifier" yaml:"verifier"`
	Methodology      string  `json:"methodology" yaml:"methodology"`
	TokenID          string  `json:"tokenId" yaml:"tokenId"`
	LastTransaction  string  `json:"lastTransaction,omitempty" yaml:"lastTransaction"`
	CO2Reduction     int     `json:"co2Reduction" yaml:"co2Reduction"`
	Documentation    string  `json:"documentation,omitempty" yaml:"documentation"`
	Image            string  `json:"image" yaml:"image"`
	Description      string  `json:"description" yaml:"description"`
	PricePerTon      float64 `json:"pricePerTon" yaml:"pricePerTon"`
}

// Wallet is the display-only payment method shown when confirming a purchase.
type Wallet struct {
	Address string  `json:"address" yaml:"address"`
	Balance float64 `json:"balance" yaml:"balance"`
}
