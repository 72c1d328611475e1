package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func validateCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate every declared type",
		Long: `Validate checks the generic declarations of every type in the universe:
the shapes of super types, bounds, fields and methods, the placement of
type annotations, cyclic bounds, and signatures that could not be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := loadUniverse(ctx, cfg)
			if err != nil {
				return err
			}
			results, err := u.ValidateAll(ctx)
			if err != nil {
				return err
			}

			p := newPrinter(ctx)
			invalid := 0
			for _, r := range results {
				if r.Err == nil {
					p.line(okStyle.Render("ok"), "      ", r.Type.Name())
					continue
				}
				invalid++
				p.line(invalidStyle.Render("invalid"), " ", r.Type.Name())
				for _, msg := range strings.Split(r.Err.Error(), "\n") {
					p.line("  ", dimStyle.Render(msg))
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d declarations are invalid", invalid, len(results))
			}
			return nil
		},
	}
}
