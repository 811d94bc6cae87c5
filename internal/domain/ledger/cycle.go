package ledger

import (
	"fmt"
	"time"
)

// InvoiceReference identifies one billing cycle of a card. It is unique per
// card: there is at most one invoice per card per reference month.
type InvoiceReference struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// IsValid checks month and year ranges
func (r InvoiceReference) IsValid() bool {
	return r.Month >= 1 && r.Month <= 12 && r.Year >= 1970 && r.Year <= 9999
}

// String formats the reference as YYYY-MM
func (r InvoiceReference) String() string {
	return fmt.Sprintf("%04d-%02d", r.Year, r.Month)
}

// Next returns the following reference month
func (r InvoiceReference) Next() InvoiceReference {
	if r.Month == 12 {
		return InvoiceReference{Month: 1, Year: r.Year + 1}
	}
	return InvoiceReference{Month: r.Month + 1, Year: r.Year}
}

// AddMonths returns the reference n months ahead
func (r InvoiceReference) AddMonths(n int) InvoiceReference {
	ref := r
	for i := 0; i < n; i++ {
		ref = ref.Next()
	}
	return ref
}

// Compare returns -1, 0 or 1 ordering references chronologically
func (r InvoiceReference) Compare(other InvoiceReference) int {
	if r.Year != other.Year {
		if r.Year < other.Year {
			return -1
		}
		return 1
	}
	if r.Month != other.Month {
		if r.Month < other.Month {
			return -1
		}
		return 1
	}
	return 0
}

// ReferenceForCompetence resolves which invoice a card purchase belongs to.
// A purchase dated before the closing day stays in the competence month; on
// or after the closing day it rolls into the next month's invoice.
func ReferenceForCompetence(competence time.Time, closingDay int) InvoiceReference {
	ref := InvoiceReference{Month: int(competence.Month()), Year: competence.Year()}
	if competence.Day() >= closingDay {
		ref = ref.Next()
	}
	return ref
}

// ClosingDateFor returns the closing date of the invoice for a reference
func ClosingDateFor(ref InvoiceReference, closingDay int) time.Time {
	return time.Date(ref.Year, time.Month(ref.Month), closingDay, 0, 0, 0, 0, time.UTC)
}

// DueDateFor returns the due date of the invoice for a reference. The due
// day lands in the reference month when it follows the closing day, otherwise
// in the next month.
func DueDateFor(ref InvoiceReference, closingDay, dueDay int) time.Time {
	due := ref
	if dueDay <= closingDay {
		due = ref.Next()
	}
	return time.Date(due.Year, time.Month(due.Month), dueDay, 0, 0, 0, 0, time.UTC)
}
