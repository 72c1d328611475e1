package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vito/generics/pkg/generic"
)

func detachCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detach <type>",
		Short: "Print the members of a declared type as detached tokens",
		Long: `Detach prints the fields and methods a type declares as tokens that no
longer refer to the type itself, followed by the erased signature of each
method.`,
		Example: `  generics detach demo.Box`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := loadUniverse(ctx, cfg)
			if err != nil {
				return err
			}
			t, ok := u.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown type %s", args[0])
			}

			p := newPrinter(ctx)
			p.line(headerStyle.Render(t.Name()))
			for _, f := range t.DeclaredFields() {
				token, err := f.AsToken(t.Equal)
				if err != nil {
					return fmt.Errorf("%s: %w", f, err)
				}
				p.line("  ", token.Name, ": ", token.Type.String())
			}
			for _, m := range t.DeclaredMethods() {
				token, err := m.AsToken(t.Equal)
				if err != nil {
					return fmt.Errorf("%s: %w", m, err)
				}
				sig, err := token.Signature(t)
				if err != nil {
					return fmt.Errorf("%s: %w", m, err)
				}
				p.line("  ", tokenLine(token), dimStyle.Render(" => "+sig.String()))
			}
			return nil
		},
	}
	return cmd
}

func tokenLine(token generic.MethodToken) string {
	s := ""
	if len(token.TypeVariables) > 0 {
		symbols := make([]generic.Node, len(token.TypeVariables))
		for i, v := range token.TypeVariables {
			symbols[i] = generic.Symbol(v.Symbol)
		}
		s = "<" + joinNodes(symbols) + "> "
	}
	s += token.Name + "(" + joinNodes(token.Parameters) + "): " + token.Return.String()
	if len(token.Exceptions) > 0 {
		s += " throws " + joinNodes(token.Exceptions)
	}
	return s
}
