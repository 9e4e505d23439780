package main

import (
	"fmt"
	"time"

	"museumBooker/internal/config"
	"museumBooker/internal/models"

	"github.com/spf13/cobra"
)

func newPricingCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Inspect pricing rules",
	}

	cmd.AddCommand(newPricingCheckCmd(configPath))

	return cmd
}

func newPricingCheckCmd(configPath *string) *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a pricing seed and report overlapping rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := envLocal

			if seedPath == "" {
				cfg, err := config.Load(*configPath)
				if err != nil {
					return err
				}
				seedPath, env = cfg.Pricing.SeedPath, cfg.Env
			}

			log := setupLogger(env)

			catalog, err := loadCatalog(log, seedPath, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range catalog.Rules() {
				fmt.Fprintf(out, "#%d %s/%s adult=%.2f child=%.2f %s..%s\n",
					r.ID, r.Nationality, r.TicketType, r.AdultPrice, r.ChildPrice,
					r.EffectiveFrom.Format(models.DateLayout), r.EffectiveTo.Format(models.DateLayout))
			}

			overlaps := catalog.Overlaps()
			for _, o := range overlaps {
				fmt.Fprintf(out, "overlap: %s/%s rules #%d and #%d, #%d wins\n",
					o.Nationality, o.TicketType, o.First, o.Second, o.Second)
			}
			if len(overlaps) > 0 {
				return fmt.Errorf("%d overlapping pricing rule pair(s)", len(overlaps))
			}

			fmt.Fprintln(out, "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&seedPath, "seed", "", "pricing seed file (defaults to pricing.seed_path from config)")

	return cmd
}
