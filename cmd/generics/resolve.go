package main

import (
	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/vito/generics/pkg/generic"
)

func resolveCmd(cfg *Config) *cobra.Command {
	var reify, dump bool

	cmd := &cobra.Command{
		Use:   "resolve <type>",
		Short: "Show the hierarchy and members of a type",
		Long: `Resolve walks the super types of a type and lists the fields and methods
each of them declares, with type variables replaced as seen from the
given type.`,
		Example: `  generics resolve 'Ldemo/Box<Ljava/lang/Integer;>;'
  generics resolve --reify demo.Box
  generics resolve --in demo.Box --dump 'Ljava/util/List<TT;>;'`,
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
			if reify {
				if n, err = generic.Reify(n); err != nil {
					return err
				}
			}

			p := newPrinter(ctx)
			if dump {
				_, err := pretty.Fprintf(p.w, "%# v\n", summarize(n))
				return err
			}

			ancestors, err := generic.Hierarchy(n)
			if err != nil {
				return err
			}
			p.line(headerStyle.Render("Hierarchy"))
			for _, a := range ancestors {
				p.line("  ", typeStyle.Render(a.String()))
			}
			for _, a := range ancestors {
				if err := printMembers(p, a); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Site, "in", "", "Type whose type variables are in scope")
	cmd.Flags().BoolVar(&reify, "reify", false, "Reify the type before walking its hierarchy")
	cmd.Flags().BoolVar(&dump, "dump", false, "Print the structure of the type instead")
	return cmd
}

func printMembers(p printer, n generic.Node) error {
	fields, err := generic.Fields(n)
	if err != nil {
		return err
	}
	methods, err := generic.Methods(n)
	if err != nil {
		return err
	}
	if len(fields) == 0 && len(methods) == 0 {
		return nil
	}
	p.blank()
	p.line(headerStyle.Render(n.String()))
	for _, f := range fields {
		p.line("  ", f.Field.Name(), ": ", f.Type.String())
	}
	for _, m := range methods {
		p.line("  ", methodLine(m))
	}
	return nil
}

// summary is the structure of a node without its weak references.
type summary struct {
	Sort        string
	Type        string
	Erasure     string
	Annotations []string
	Owner       *summary
	Arguments   []summary
	Component   *summary
	Upper       []summary
	Lower       []summary
	Source      string
}

func summarize(n generic.Node) summary {
	if err := generic.Failure(n); err != nil {
		return summary{Sort: "MALFORMED", Type: n.String(), Erasure: n.Erasure().Name(), Source: err.Error()}
	}
	s := summary{
		Sort: n.Sort().String(),
		Type: n.String(),
	}
	for _, a := range n.Annotations() {
		s.Annotations = append(s.Annotations, a.String())
	}
	switch n.Sort() {
	case generic.NonGeneric:
		s.Erasure = n.Erasure().Name()
		if c := n.ComponentType(); c != nil {
			cs := summarize(c)
			s.Component = &cs
		}
	case generic.Parameterized:
		s.Erasure = n.Erasure().Name()
		if o := n.OwnerType(); o != nil {
			owner := summarize(o)
			s.Owner = &owner
		}
		s.Arguments = summarizeAll(n.TypeArguments())
	case generic.GenericArray:
		s.Erasure = n.Erasure().Name()
		cs := summarize(n.ComponentType())
		s.Component = &cs
	case generic.Wildcard:
		s.Upper = summarizeAll(n.UpperBounds())
		s.Lower = summarizeAll(n.LowerBounds())
	case generic.Variable:
		s.Erasure = n.Erasure().Name()
		s.Source = sourceName(n.VariableSource())
	}
	return s
}

func summarizeAll(ns []generic.Node) []summary {
	var ss []summary
	for _, n := range ns {
		ss = append(ss, summarize(n))
	}
	return ss
}

func sourceName(s generic.TypeVariableSource) string {
	switch s := s.(type) {
	case *generic.Type:
		return s.Name()
	case *generic.Method:
		return s.String()
	}
	return ""
}
