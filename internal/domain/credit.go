package domain

import (
	"fmt"
	"time"
)

// CarbonCredit is a lot of credits bought from a project.
type CarbonCredit struct {
	ID              string    `json:"id" yaml:"id"`
	ProjectID       string    `json:"projectId" yaml:"projectId"`
	TotalAmount     int       `json:"totalAmount" yaml:"totalAmount"`
	AvailableAmount int       `json:"availableAmount" yaml:"availableAmount"`
	UsedAmount      int       `json:"usedAmount" yaml:"usedAmount"`
	PurchaseDate    time.Time `json:"purchaseDate" yaml:"purchaseDate"`
}

// Validate checks that available and used amounts add up to the total.
func (c CarbonCredit) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("credit for project %s: id required", c.ProjectID)
	}
	if c.AvailableAmount < 0 || c.UsedAmount < 0 {
		return fmt.Errorf("credit %s: negative amounts", c.ID)
	}
	if c.AvailableAmount+c.UsedAmount != c.TotalAmount {
		return fmt.Errorf("credit %s: available %d + used %d != total %d", c.ID, c.AvailableAmount, c.UsedAmount, c.TotalAmount)
	}
	return nil
}

// RecentOffset is a row of the dashboard "recent offsets" table.
type RecentOffset struct {
	Source  string `json:"source" yaml:"source"`
	Project string `json:"project" yaml:"project"`
	Amount  int    `json:"amount" yaml:"amount"`
	Date    string `json:"date" yaml:"date"`
}
