package pricing

import (
	"testing"
	"time"

	"museumBooker/internal/lib/logger/handlers/slogdiscard"
	"museumBooker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(slogdiscard.NewDiscardLogger(), DefaultRules(today))
	require.NoError(t, err)

	testCases := []struct {
		name        string
		nationality string
		ticketType  string
		date        time.Time
		wantAdult   float64
		wantErr     error
	}{
		{
			name:        "Local first day",
			nationality: "Local",
			ticketType:  "Regular",
			date:        today,
			wantAdult:   20.0,
		},
		{
			name:        "Foreign last day",
			nationality: "Foreign",
			ticketType:  "Regular",
			date:        today.Add(DefaultWindow),
			wantAdult:   30.0,
		},
		{
			name:        "Before window",
			nationality: "Local",
			ticketType:  "Regular",
			date:        today.AddDate(0, 0, -1),
			wantErr:     ErrNotFound,
		},
		{
			name:        "Unknown ticket type",
			nationality: "Local",
			ticketType:  "VIP",
			date:        today,
			wantErr:     ErrNotFound,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rule, err := c.Lookup(tc.nationality, tc.ticketType, tc.date)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantAdult, rule.AdultPrice)
		})
	}
}

func TestLookupOverlapPicksMostRecent(t *testing.T) {
	t.Parallel()

	rules := []models.PricingRule{
		{Nationality: "Local", TicketType: "Regular", AdultPrice: 20, ChildPrice: 10, EffectiveFrom: day(2026, 1, 1), EffectiveTo: day(2026, 12, 31)},
		{Nationality: "Local", TicketType: "Regular", AdultPrice: 25, ChildPrice: 12, EffectiveFrom: day(2026, 12, 1), EffectiveTo: day(2027, 1, 31)},
	}

	c, err := NewCatalog(slogdiscard.NewDiscardLogger(), rules)
	require.NoError(t, err)

	rule, err := c.Lookup("Local", "Regular", day(2026, 12, 24))
	require.NoError(t, err)
	assert.Equal(t, 25.0, rule.AdultPrice)
	assert.Equal(t, 2, rule.ID)

	rule, err = c.Lookup("Local", "Regular", day(2026, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, 20.0, rule.AdultPrice)

	overlaps := c.Overlaps()
	require.Len(t, overlaps, 1)
	assert.Equal(t, Overlap{Nationality: "Local", TicketType: "Regular", First: 1, Second: 2}, overlaps[0])
}

func TestNewCatalogRejectsInvalidRules(t *testing.T) {
	t.Parallel()

	rules := []models.PricingRule{
		{Nationality: "Local", TicketType: "Regular", AdultPrice: -1, EffectiveFrom: day(2026, 1, 1), EffectiveTo: day(2026, 2, 1)},
		{Nationality: "", TicketType: "Regular", EffectiveFrom: day(2026, 3, 1), EffectiveTo: day(2026, 2, 1)},
	}

	_, err := NewCatalog(slogdiscard.NewDiscardLogger(), rules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 1")
	assert.Contains(t, err.Error(), "rule 2")
	assert.Contains(t, err.Error(), "effective_from is after effective_to")
}

func TestParseSeed(t *testing.T) {
	t.Parallel()

	data := []byte(`
rules:
  - nationality: Local
    ticket_type: Regular
    adult_price: 20
    child_price: 10
  - nationality: Foreign
    ticket_type: Regular
    adult_price: 30
    child_price: 15
    effective_from: "2026-01-01"
    effective_to: "2026-06-30"
`)

	rules, err := ParseSeed(data, today)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, today, rules[0].EffectiveFrom)
	assert.Equal(t, today.Add(DefaultWindow), rules[0].EffectiveTo)
	assert.Equal(t, day(2026, 1, 1), rules[1].EffectiveFrom)
	assert.Equal(t, day(2026, 6, 30), rules[1].EffectiveTo)
	assert.Equal(t, 15.0, rules[1].ChildPrice)
}

func TestParseSeedBadDate(t *testing.T) {
	t.Parallel()

	_, err := ParseSeed([]byte("rules:\n  - nationality: Local\n    ticket_type: Regular\n    effective_from: \"01/01/2026\"\n"), today)
	assert.ErrorContains(t, err, "effective_from")
}
