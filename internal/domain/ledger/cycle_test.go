package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceReference_Next(t *testing.T) {
	assert.Equal(t, InvoiceReference{Month: 4, Year: 2025}, InvoiceReference{Month: 3, Year: 2025}.Next())
	assert.Equal(t, InvoiceReference{Month: 1, Year: 2026}, InvoiceReference{Month: 12, Year: 2025}.Next())
}

func TestInvoiceReference_AddMonths(t *testing.T) {
	ref := InvoiceReference{Month: 11, Year: 2025}
	assert.Equal(t, InvoiceReference{Month: 2, Year: 2026}, ref.AddMonths(3))
	assert.Equal(t, ref, ref.AddMonths(0))
}

func TestInvoiceReference_Compare(t *testing.T) {
	a := InvoiceReference{Month: 3, Year: 2025}
	b := InvoiceReference{Month: 4, Year: 2025}
	c := InvoiceReference{Month: 1, Year: 2026}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, b.Compare(c))
}

func TestReferenceForCompetence(t *testing.T) {
	closingDay := 10

	tests := []struct {
		name     string
		date     time.Time
		expected InvoiceReference
	}{
		{
			name:     "before closing day stays in month",
			date:     time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			expected: InvoiceReference{Month: 3, Year: 2025},
		},
		{
			name:     "on closing day rolls to next month",
			date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			expected: InvoiceReference{Month: 4, Year: 2025},
		},
		{
			name:     "after closing day rolls to next month",
			date:     time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
			expected: InvoiceReference{Month: 4, Year: 2025},
		},
		{
			name:     "december rollover crosses the year",
			date:     time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
			expected: InvoiceReference{Month: 1, Year: 2026},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ReferenceForCompetence(tc.date, closingDay))
		})
	}
}

func TestDueDateFor(t *testing.T) {
	ref := InvoiceReference{Month: 3, Year: 2025}

	// Due day after closing day lands in the reference month
	due := DueDateFor(ref, 10, 17)
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), due)

	// Due day on or before closing day lands in the next month
	due = DueDateFor(ref, 25, 5)
	assert.Equal(t, time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), due)
}

func TestClosingDateFor(t *testing.T) {
	ref := InvoiceReference{Month: 7, Year: 2025}
	assert.Equal(t, time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC), ClosingDateFor(ref, 12))
}
