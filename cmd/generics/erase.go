package main

import (
	"github.com/spf13/cobra"

	"github.com/vito/generics/pkg/generic"
)

func eraseCmd(cfg *Config) *cobra.Command {
	var generalize bool

	cmd := &cobra.Command{
		Use:   "erase <type>",
		Short: "Print the erasure of a type",
		Example: `  generics erase 'Ljava/util/List<Ljava/lang/String;>;'
  generics erase --in demo.Box 'TT;'
  generics erase --generalize '[Ljava/util/List<Ljava/lang/String;>;'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := loadUniverse(ctx, cfg)
			if err != nil {
				return err
			}
			n, err := parseAt(u, args[0], cfg.Site)
			if err != nil {
				return err
			}
			var erased generic.Node
			if generalize {
				erased, err = generic.Accept[generic.Node](n, generic.Generalizing{})
			} else {
				erased, err = generic.Erase(n)
			}
			if err != nil {
				return err
			}
			newPrinter(ctx).line(erased.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Site, "in", "", "Type whose type variables are in scope")
	cmd.Flags().BoolVar(&generalize, "generalize", false, "Replace generic types by Object, keeping array arity")
	return cmd
}
