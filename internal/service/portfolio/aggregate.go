package portfolio

import (
	"math"

	"carbonpay/internal/domain"
)

type CreditSummary struct {
	TotalCredits     int `json:"totalCredits"`
	AvailableCredits int `json:"availableCredits"`
	RetiredCredits   int `json:"retiredCredits"`
	ProjectCount     int `json:"projectCount"`
}

type SourceShare struct {
	Source     string `json:"source"`
	Amount     int    `json:"amount"`
	Percentage int    `json:"percentage"`
}

type EmissionSummary struct {
	TotalEmissions   int          `json:"totalEmissions"`
	TotalOffset      int          `json:"totalOffset"`
	Remaining        int          `json:"remaining"`
	OffsetPercentage int          `json:"offsetPercentage"`
	LargestSource    *SourceShare `json:"largestSource,omitempty"`
	MonthlyAverage   float64      `json:"monthlyAverage"`
}

type EmissionRow struct {
	domain.Emission
	OffsetPercentage int `json:"offsetPercentage"`
}

// Percent is round(100*part/whole), or 0 when whole is zero.
func Percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

// SummarizeCredits totals credit lots. ProjectCount counts distinct projects.
func SummarizeCredits(credits []domain.CarbonCredit) CreditSummary {
	var s CreditSummary
	projects := make(map[string]struct{}, len(credits))
	for _, c := range credits {
		s.TotalCredits += c.TotalAmount
		s.AvailableCredits += c.AvailableAmount
		s.RetiredCredits += c.UsedAmount
		projects[c.ProjectID] = struct{}{}
	}
	s.ProjectCount = len(projects)
	return s
}

// SummarizeEmissions totals emissions and offsets.
func SummarizeEmissions(emissions []domain.Emission) EmissionSummary {
	var s EmissionSummary
	months := make(map[[2]int]struct{}, len(emissions))
	var largest *domain.Emission
	for i, e := range emissions {
		s.TotalEmissions += e.Amount
		s.TotalOffset += e.Offset
		if !e.Date.IsZero() {
			months[[2]int{e.Date.Year(), int(e.Date.Month())}] = struct{}{}
		}
		if largest == nil || e.Amount > largest.Amount {
			largest = &emissions[i]
		}
	}
	s.Remaining = s.TotalEmissions - s.TotalOffset
	s.OffsetPercentage = Percent(s.TotalOffset, s.TotalEmissions)
	if largest != nil {
		s.LargestSource = &SourceShare{
			Source:     largest.Source,
			Amount:     largest.Amount,
			Percentage: Percent(largest.Amount, s.TotalEmissions),
		}
	}
	if len(months) > 0 {
		s.MonthlyAverage = math.Round(float64(s.TotalEmissions)/float64(len(months))*100) / 100
	}
	return s
}

// EmissionRows attaches the per-row offset percentage.
func EmissionRows(emissions []domain.Emission) []EmissionRow {
	rows := make([]EmissionRow, 0, len(emissions))
	for _, e := range emissions {
		rows = append(rows, EmissionRow{Emission: e, OffsetPercentage: Percent(e.Offset, e.Amount)})
	}
	return rows
}
