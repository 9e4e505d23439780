// Package pricing resolves ticket prices for a nationality, ticket type and visit date.
package pricing

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"museumBooker/internal/models"
)

var ErrNotFound = errors.New("no pricing rule for the selected options")

// Catalog is an immutable set of pricing rules. It is safe for concurrent use.
type Catalog struct {
	log   *slog.Logger
	rules []models.PricingRule
}

// NewCatalog validates rules and numbers them in load order; a later rule is
// considered more recently created.
func NewCatalog(log *slog.Logger, rules []models.PricingRule) (*Catalog, error) {
	const op = "pricing.NewCatalog"

	c := &Catalog{
		log:   log,
		rules: make([]models.PricingRule, 0, len(rules)),
	}

	var errs []error
	for i, r := range rules {
		r.ID = i + 1
		r.EffectiveFrom = models.DateOnly(r.EffectiveFrom)
		r.EffectiveTo = models.DateOnly(r.EffectiveTo)

		if err := validateRule(r); err != nil {
			errs = append(errs, fmt.Errorf("rule %d (%s/%s): %w", r.ID, r.Nationality, r.TicketType, err))
			continue
		}
		c.rules = append(c.rules, r)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, o := range c.Overlaps() {
		log.Warn("overlapping pricing rules, the most recently created one wins",
			slog.String("op", op),
			slog.String("nationality", o.Nationality),
			slog.String("ticket_type", o.TicketType),
			slog.Int("rule", o.First),
			slog.Int("other_rule", o.Second),
		)
	}

	return c, nil
}

func validateRule(r models.PricingRule) error {
	var errs []error

	if r.Nationality == "" {
		errs = append(errs, errors.New("nationality is empty"))
	}
	if r.TicketType == "" {
		errs = append(errs, errors.New("ticket type is empty"))
	}
	if r.AdultPrice < 0 || r.ChildPrice < 0 {
		errs = append(errs, errors.New("prices must be non-negative"))
	}
	if r.EffectiveFrom.After(r.EffectiveTo) {
		errs = append(errs, errors.New("effective_from is after effective_to"))
	}

	return errors.Join(errs...)
}

// Lookup returns the rule whose closed interval contains date. When several
// rules match, the most recently created one is returned and the ambiguity
// is logged.
func (c *Catalog) Lookup(nationality, ticketType string, date time.Time) (models.PricingRule, error) {
	const op = "pricing.Lookup"

	var found []models.PricingRule
	for _, r := range c.rules {
		if r.Nationality == nationality && r.TicketType == ticketType && r.Covers(date) {
			found = append(found, r)
		}
	}

	if len(found) == 0 {
		return models.PricingRule{}, ErrNotFound
	}

	chosen := found[0]
	for _, r := range found[1:] {
		if r.ID > chosen.ID {
			chosen = r
		}
	}

	if len(found) > 1 {
		c.log.Warn("ambiguous pricing lookup",
			slog.String("op", op),
			slog.String("nationality", nationality),
			slog.String("ticket_type", ticketType),
			slog.String("date", date.Format(models.DateLayout)),
			slog.Int("matches", len(found)),
			slog.Int("chosen_rule", chosen.ID),
		)
	}

	return chosen, nil
}

func (c *Catalog) Rules() []models.PricingRule {
	out := make([]models.PricingRule, len(c.rules))
	copy(out, c.rules)
	return out
}

type Overlap struct {
	Nationality string
	TicketType  string
	First       int
	Second      int
}

// Overlaps lists pairs of rules for the same nationality and ticket type whose
// intervals intersect.
func (c *Catalog) Overlaps() []Overlap {
	var out []Overlap

	for i, a := range c.rules {
		for _, b := range c.rules[i+1:] {
			if a.Nationality != b.Nationality || a.TicketType != b.TicketType {
				continue
			}
			if a.EffectiveFrom.After(b.EffectiveTo) || b.EffectiveFrom.After(a.EffectiveTo) {
				continue
			}
			out = append(out, Overlap{
				Nationality: a.Nationality,
				TicketType:  a.TicketType,
				First:       a.ID,
				Second:      b.ID,
			})
		}
	}

	return out
}
