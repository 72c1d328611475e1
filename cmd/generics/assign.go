package main

import (
	"github.com/spf13/cobra"

	"github.com/vito/generics/pkg/generic"
)

func assignCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <target> <source>",
		Short: "Check whether a source type is assignable to a target type",
		Example: `  generics assign 'Ljava/util/List<Ljava/lang/Integer;>;' 'Ljava/util/ArrayList<Ljava/lang/Integer;>;'
  generics assign --in demo.Box 'Ljava/util/List<+TT;>;' 'Ljava/util/List<TT;>;'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := loadUniverse(ctx, cfg)
			if err != nil {
				return err
			}
			target, err := parseAt(u, args[0], cfg.Site)
			if err != nil {
				return err
			}
			source, err := parseAt(u, args[1], cfg.Site)
			if err != nil {
				return err
			}
			ok, err := generic.IsAssignable(target, source)
			if err != nil {
				return err
			}

			p := newPrinter(ctx)
			verdict := invalidStyle.Render("is not assignable to")
			if ok {
				verdict = okStyle.Render("is assignable to")
			}
			p.line(typeStyle.Render(source.String()), " ", verdict, " ", typeStyle.Render(target.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Site, "in", "", "Type whose type variables are in scope")
	return cmd
}
