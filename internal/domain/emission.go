package domain

import (
	"fmt"
	"time"
)

// Emission is a recorded emission source and how much of it was offset.
type Emission struct {
	ID          string    `json:"id" yaml:"id"`
	Source      string    `json:"source" yaml:"source"`
	Amount      int       `json:"amount" yaml:"amount"`
	Date        time.Time `json:"date" yaml:"date"`
	Offset      int       `json:"offset" yaml:"offset"`
	ProjectName string    `json:"projectName" yaml:"projectName"`
}

// Validate checks that the offset never exceeds the emitted amount.
func (e Emission) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("emission %q: id required", e.Source)
	}
	if e.Amount < 0 || e.Offset < 0 {
		return fmt.Errorf("emission %s: negative amounts", e.ID)
	}
	if e.Offset > e.Amount {
		return fmt.Errorf("emission %s: offset %d exceeds amount %d", e.ID, e.Offset, e.Amount)
	}
	return nil
}
