package recurrence

import (
	"sort"

	"cashflow/internal/core"
)

// Occurrence is a recurring transaction whose next date falls in a window.
type Occurrence struct {
	TransactionID string         `json:"transactionId"`
	Name          string         `json:"name"`
	Category      string         `json:"category"`
	Frequency     core.Frequency `json:"frequency"`
	Date          core.Day       `json:"date"`
	Amount        float64        `json:"amount"`
}

// Upcoming lists recurring transactions due between start and end inclusive,
// earliest first.
func Upcoming(txs []core.Transaction, start, end core.Day) []Occurrence {
	var out []Occurrence
	for _, tx := range txs {
		if tx.Recurrence == nil || !tx.Recurrence.NextDate.Between(start, end) {
			continue
		}
		out = append(out, Occurrence{
			TransactionID: tx.ID,
			Name:          tx.Name,
			Category:      tx.Category,
			Frequency:     tx.Recurrence.Frequency,
			Date:          tx.Recurrence.NextDate,
			Amount:        tx.PlannedAmount,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
