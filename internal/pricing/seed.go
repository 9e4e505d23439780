package pricing

import (
	"fmt"
	"os"
	"time"

	"museumBooker/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultWindow is the validity of a seed entry that has no explicit dates.
const DefaultWindow = 365 * 24 * time.Hour

type seedFile struct {
	Rules []seedRule `yaml:"rules"`
}

type seedRule struct {
	Nationality   string  `yaml:"nationality"`
	TicketType    string  `yaml:"ticket_type"`
	AdultPrice    float64 `yaml:"adult_price"`
	ChildPrice    float64 `yaml:"child_price"`
	EffectiveFrom string  `yaml:"effective_from"`
	EffectiveTo   string  `yaml:"effective_to"`
}

// DefaultRules are used when no seed file is configured.
func DefaultRules(today time.Time) []models.PricingRule {
	from := models.DateOnly(today)
	to := from.Add(DefaultWindow)

	return []models.PricingRule{
		{Nationality: "Local", TicketType: "Regular", AdultPrice: 20.0, ChildPrice: 10.0, EffectiveFrom: from, EffectiveTo: to},
		{Nationality: "Foreign", TicketType: "Regular", AdultPrice: 30.0, ChildPrice: 15.0, EffectiveFrom: from, EffectiveTo: to},
	}
}

// LoadSeed reads pricing rules from a YAML file. Missing dates default to
// today and today plus DefaultWindow.
func LoadSeed(path string, today time.Time) ([]models.PricingRule, error) {
	const op = "pricing.LoadSeed"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rules, err := ParseSeed(data, today)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, path, err)
	}

	return rules, nil
}

func ParseSeed(data []byte, today time.Time) ([]models.PricingRule, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	from := models.DateOnly(today)
	to := from.Add(DefaultWindow)

	rules := make([]models.PricingRule, 0, len(f.Rules))
	for i, s := range f.Rules {
		r := models.PricingRule{
			Nationality:   s.Nationality,
			TicketType:    s.TicketType,
			AdultPrice:    s.AdultPrice,
			ChildPrice:    s.ChildPrice,
			EffectiveFrom: from,
			EffectiveTo:   to,
		}

		if s.EffectiveFrom != "" {
			d, err := models.ParseDate(s.EffectiveFrom)
			if err != nil {
				return nil, fmt.Errorf("rule %d: effective_from: %w", i+1, err)
			}
			r.EffectiveFrom = d
		}
		if s.EffectiveTo != "" {
			d, err := models.ParseDate(s.EffectiveTo)
			if err != nil {
				return nil, fmt.Errorf("rule %d: effective_to: %w", i+1, err)
			}
			r.EffectiveTo = d
		}

		rules = append(rules, r)
	}

	return rules, nil
}
