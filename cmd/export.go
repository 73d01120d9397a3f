package cmd

import (
	"github.com/spf13/cobra"
)

var exportFlags transformFlags

func init() {
	addTransformFlags(exportCmd, &exportFlags)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export files...",
	Short: "Writes a rewritten copy of each file",
	Long:  `Writes a rewritten copy of each file to --dest. A file that fails is reported and the rest carry on.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := exportFlags.request(cmd, args, false)
		if err != nil {
			return err
		}
		return runTransform(cmd.OutOrStdout(), req)
	},
}
