package cmd

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/jsphweid/phrasekit/analysis"
	"github.com/jsphweid/phrasekit/model"
	"github.com/jsphweid/phrasekit/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Prints analysis records",
	Long:  `Prints a JSON analysis record per file. With no files, every .mid under --root is analyzed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyze(cmd.OutOrStdout(), args)
	},
}

// libraryRecords analyzes every clip under root, leaving out exports
// already written to dest.
func libraryRecords(root string, dest string) ([]model.AnalysisRecord, error) {
	rels, err := util.GatherAllMidiPaths(root, 0, dest)
	if err != nil {
		return nil, err
	}
	records := make([]model.AnalysisRecord, 0, len(rels))
	for _, rel := range rels {
		rec := analysis.AnalyzeFile(filepath.Join(root, rel))
		rec.Filename = filepath.ToSlash(rel)
		records = append(records, rec)
	}
	return records, nil
}

func analyze(w io.Writer, paths []string) error {
	var records []model.AnalysisRecord
	if len(paths) == 0 {
		res, err := libraryRecords(cfg.Root, cfg.Dest)
		if err != nil {
			return err
		}
		records = res
	}
	for _, p := range paths {
		records = append(records, analysis.AnalyzeFile(p))
	}
	return writeJSON(w, records)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
