package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flagkit/flagkit/pkg/flagkit"
	"github.com/flagkit/flagkit/pkg/flagtype"
)

var computeFn string

func init() {
	cmd := newComputeCmd()
	cmd.Flags().
		StringVar(&computeFn, "fn", "sum", "Formula to derive the value from deps: sum, and, or, concat")
	rootCmd.AddCommand(cmd)
}

func newComputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compute <key> <dep...> --fn <sum|and|or|concat>",
		Short: "Register a computed flag over one or more dependencies",
		Long: `The compute command registers a computed flag deriving its value from
one or more dependency keys, using one of a small set of built-in formulas
(there being no way to hand an arbitrary Go function to a CLI invocation):

  sum     numeric sum of every present dependency (absent treated as 0)
  and     boolean AND of every dependency's truthiness
  or      boolean OR of every dependency's truthiness
  concat  string concatenation of every present dependency

Example:
  flagctl compute totals.cost price tax --fn sum
  flagctl compute access.allowed is_admin is_member --fn or`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(args)
		},
	}
}

func runCompute(args []string) error {
	key := args[0]
	deps := args[1:]

	fn, err := computeFormula(computeFn)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	if err := store.Compute(key, deps, fn); err != nil {
		return fmt.Errorf("compute %s: %w", key, err)
	}

	v, _ := store.Get(key)
	if jsonOut {
		return printJSON(map[string]interface{}{"key": key, "fn": computeFn, "value": formatValue(v)})
	}
	printInfo("%s = %s\n", key, formatValue(v))
	return nil
}

func computeFormula(name string) (flagkit.ComputeFunc, error) {
	switch name {
	case "sum":
		return func(args []flagkit.Arg) flagtype.Value {
			total := 0.0
			for _, a := range args {
				v := flagtype.Coalesce(a.Value, a.Present, flagtype.Num(0))
				n, _ := v.AsNum()
				total += n
			}
			return flagtype.Num(total)
		}, nil
	case "and":
		return func(args []flagkit.Arg) flagtype.Value {
			for _, a := range args {
				if !flagtype.Truthy(a.Value, a.Present) {
					return flagtype.Bool(false)
				}
			}
			return flagtype.Bool(true)
		}, nil
	case "or":
		return func(args []flagkit.Arg) flagtype.Value {
			for _, a := range args {
				if flagtype.Truthy(a.Value, a.Present) {
					return flagtype.Bool(true)
				}
			}
			return flagtype.Bool(false)
		}, nil
	case "concat":
		return func(args []flagkit.Arg) flagtype.Value {
			var b strings.Builder
			for _, a := range args {
				if a.Present {
					b.WriteString(formatValue(a.Value))
				}
			}
			return flagtype.Str(b.String())
		}, nil
	default:
		return nil, fmt.Errorf("unknown --fn %q (want sum, and, or, concat)", name)
	}
}
