package main

import (
	"fmt"

	"github.com/aretw0/nuex/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the module tree of the demo store",
	Long:  `Builds the demo store and renders its module tree: every module path, its strictness and its plain state keys.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		style, _ := cmd.Flags().GetString("style")

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		md := tui.TreeMarkdown(s.store.Tree())
		if raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		render, err := tui.NewRenderer(style)
		if err != nil {
			return err
		}
		out, err := render(md)
		if err != nil {
			return fmt.Errorf("failed to render tree: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().Bool("raw", false, "Print the markdown without rendering it")
	treeCmd.Flags().String("style", "", "Glamour style (dark, light, notty); defaults to the terminal background")
}
