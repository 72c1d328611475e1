package main

import (
	"context"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/pkg/errors"

	"github.com/vito/generics/pkg/generic"
	"github.com/vito/generics/pkg/ioctx"
	"github.com/vito/generics/pkg/typeset"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// printer writes styled lines. Styles are dropped when the writer is not a
// terminal.
type printer struct {
	w io.Writer
}

func newPrinter(ctx context.Context) printer {
	return printer{w: ioctx.StdoutFromContext(ctx)}
}

func (p printer) line(parts ...string) {
	_, _ = lipgloss.Fprintln(p.w, strings.Join(parts, ""))
}

func (p printer) blank() {
	_, _ = lipgloss.Fprintln(p.w)
}

// typeSignature accepts either a signature or a dotted class name.
func typeSignature(arg string) string {
	if strings.HasSuffix(arg, ";") || len(arg) == 1 {
		return arg
	}
	if component, ok := strings.CutSuffix(arg, "[]"); ok {
		return "[" + typeSignature(component)
	}
	return "L" + strings.ReplaceAll(arg, ".", "/") + ";"
}

// parseAt reads a type argument as seen from inside site. Without a site,
// the type must not mention any type variable.
func parseAt(u *typeset.Universe, arg, site string) (generic.Node, error) {
	n, err := u.ParseType(typeSignature(arg), site)
	if err != nil {
		return nil, err
	}
	if site == "" {
		if symbol, ok := firstVariable(n); ok {
			return nil, errors.Errorf("type variable %s in %s: pass --in to name the declaring type", symbol, arg)
		}
	}
	return n, nil
}

// firstVariable finds a detached type variable in n.
func firstVariable(n generic.Node) (string, bool) {
	var nested []generic.Node
	switch n.Sort() {
	case generic.VariableSymbolic, generic.Variable:
		return n.Symbol(), true
	case generic.Parameterized:
		if o := n.OwnerType(); o != nil {
			nested = append(nested, o)
		}
		nested = append(nested, n.TypeArguments()...)
	case generic.GenericArray:
		nested = append(nested, n.ComponentType())
	case generic.Wildcard:
		nested = append(nested, n.UpperBounds()...)
		nested = append(nested, n.LowerBounds()...)
	}
	for _, c := range nested {
		if symbol, ok := firstVariable(c); ok {
			return symbol, true
		}
	}
	return "", false
}

func joinNodes(ns []generic.Node) string {
	strs := make([]string, len(ns))
	for i, n := range ns {
		strs[i] = n.String()
	}
	return strings.Join(strs, ", ")
}

func methodLine(r generic.ResolvedMethod) string {
	var b strings.Builder
	if len(r.TypeVariables) > 0 {
		b.WriteString("<" + joinNodes(r.TypeVariables) + "> ")
	}
	b.WriteString(r.Method.Name())
	b.WriteString("(" + joinNodes(r.Parameters) + "): ")
	b.WriteString(r.ReturnType.String())
	if len(r.Exceptions) > 0 {
		b.WriteString(" throws " + joinNodes(r.Exceptions))
	}
	return b.String()
}
