package models

import "time"

type PricingRule struct {
	ID            int       `json:"-"`
	Nationality   string    `json:"nationality"`
	TicketType    string    `json:"ticket_type"`
	AdultPrice    float64   `json:"adult_price"`
	ChildPrice    float64   `json:"child_price"`
	EffectiveFrom time.Time `json:"effective_from"`
	EffectiveTo   time.Time `json:"effective_to"`
}

// Covers reports whether date lies in [EffectiveFrom, EffectiveTo].
func (r PricingRule) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(r.EffectiveFrom)) && !d.After(DateOnly(r.EffectiveTo))
}

func (r PricingRule) Total(adults, children int) float64 {
	return RoundCents(float64(adults)*r.AdultPrice + float64(children)*r.ChildPrice)
}
