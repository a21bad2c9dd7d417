// Package cli wires the analysis pipeline to the command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anita-prover/anita/pkgs/engine"
	"github.com/anita-prover/anita/pkgs/locale"
	"github.com/anita-prover/anita/pkgs/report"
)

// Execute runs the root command and returns the process exit code. The
// exit code reflects invocation problems only: an analysed proof exits 0
// whether or not it is valid, with the verdict on stdout.
func Execute() int {
	var (
		input   string
		loc     string
		theorem string
		dl      int
		dt      int
		dc      int
		debug   bool
	)

	rootCmd := &cobra.Command{
		Use:           "anita",
		Short:         "Analytic tableau proof assistant",
		Long:          "Checks human-authored signed tableau proofs for first-order logic and reports whether they are valid, invalid (with countermodels) or incomplete.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("reading proof script: %w", err)
			}
			cat, err := locale.Load(locale.Locale(loc))
			if err != nil {
				return err
			}

			logger := zap.NewNop()
			if debug {
				logger, err = zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
			}

			res := engine.Check(string(data), engine.Options{
				Catalog: cat,
				Logger:  logger,
				Theorem: theorem,
			})
			out := report.Render(res, cat, report.Flags{
				ShowLatex:         dl == 1,
				ShowTheorem:       dt == 1,
				ShowCounterModels: dc == 1,
			})
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&input, "input", "i", "", "input proof script file (UTF-8)")
	_ = rootCmd.MarkFlagRequired("input")
	rootCmd.Flags().StringVarP(&loc, "locale", "l", "pt", "message locale: pt or en")
	rootCmd.Flags().StringVarP(&theorem, "theorem", "t", "", "expected theorem, e.g. \"A->B, A |- B\"")
	rootCmd.Flags().IntVar(&dl, "dl", 0, "set to 1 to include the LaTeX rendering")
	rootCmd.Flags().IntVar(&dt, "dt", 0, "set to 1 to echo the parsed theorem")
	rootCmd.Flags().IntVar(&dc, "dc", 0, "set to 1 to include countermodels when applicable")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
