package cmd

import (
	"github.com/spf13/cobra"
)

var mergeFlags transformFlags

func init() {
	addTransformFlags(mergeCmd, &mergeFlags)
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge files...",
	Short: "Merges every track of the files into one pack",
	Long: `Rewrites every track of every file and writes them to --dest as a single
multi-track file. Files that would push the pack past $PHRASEKIT_MAX_MERGE_TRACKS are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := mergeFlags.request(cmd, args, true)
		if err != nil {
			return err
		}
		return runTransform(cmd.OutOrStdout(), req)
	},
}
