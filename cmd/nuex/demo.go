package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/nuex"
	"github.com/aretw0/nuex/internal/demo"
	"github.com/aretw0/nuex/internal/presentation/tui"
	"github.com/aretw0/nuex/pkg/observability"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the demo store through a short scripted session",
	Long: `Builds the demo store (a counter, a todo list and a reset mutation), runs a scripted
session against it and prints every guarded write followed by the final state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		trace, _ := cmd.Flags().GetBool("trace")
		delay, _ := cmd.Flags().GetDuration("delay")
		out := cmd.OutOrStdout()

		var opts []nuex.Option
		if trace {
			opts = append(opts, nuex.WithLifecycleHooks(observability.NewTraceWriter(out).Hooks()))
		}
		s, err := openSession(cmd, opts...)
		if err != nil {
			return err
		}
		defer s.Close()

		if out == os.Stdout {
			tui.PrintBanner(out)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), delay+10*time.Second)
		defer cancel()
		if err := demo.Script(ctx, s.store); err != nil {
			return fmt.Errorf("demo script failed: %w", err)
		}

		recs, err := s.journal.Recent(ctx, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d commits journaled\n\n", len(recs))

		data, err := yaml.Marshal(s.store.Snapshot())
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Bool("trace", true, "Print every guarded write")
	demoCmd.Flags().Duration("delay", 0, "Wait of the async counter actions")
}
