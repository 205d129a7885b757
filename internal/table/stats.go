package table

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Markers are the cell values counted by the stats cards.
type Markers struct {
	Fraud    string
	Declined string
}

// DefaultMarkers matches the transaction export encoding.
func DefaultMarkers() Markers {
	return Markers{Fraud: "1", Declined: "declined"}
}

// Stats are the summary cards, formatted for display. The raw counts are
// kept alongside for callers that need numbers.
type Stats struct {
	Total         string
	FraudCount    string
	DeclinedCount string
	FraudRate     string

	TotalN    int
	FraudN    int
	DeclinedN int
}

var statsPrinter = message.NewPrinter(language.English)

// ComputeStats summarises the whole dataset. It must be given the full
// store, never a filtered view, so the cards describe the dataset.
//
// The rate is "0%" for an empty dataset and always carries two decimals
// otherwise ("50.00%").
func ComputeStats(records []Record, fields Fields, m Markers) Stats {
	s := Stats{TotalN: len(records)}
	for _, r := range records {
		if r.Get(fields.Fraud) == m.Fraud {
			s.FraudN++
		}
		if r.Get(fields.Status) == m.Declined {
			s.DeclinedN++
		}
	}
	s.Total = statsPrinter.Sprintf("%d", s.TotalN)
	s.FraudCount = statsPrinter.Sprintf("%d", s.FraudN)
	s.DeclinedCount = statsPrinter.Sprintf("%d", s.DeclinedN)
	if s.TotalN > 0 {
		s.FraudRate = fmt.Sprintf("%.2f%%", float64(s.FraudN)/float64(s.TotalN)*100)
	} else {
		s.FraudRate = "0%"
	}
	return s
}
