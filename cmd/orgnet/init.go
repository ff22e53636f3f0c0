package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ai4socialgood/orgnet/internal/config"
	"github.com/spf13/cobra"
)

var (
	initOutput string
	initForce  bool
)

func init() {
	initCmd.Flags().StringVarP(&initOutput, "output", "o", config.ConfigFile, "Where to write the config")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default orgnet.yml",
	Long: `Write a default orgnet.yml configuring the AutismBC, ACAR and ASF pages.

Each organization expects its snapshot under data/<slug>/:
  nodes.jsonl      {"id": "...", "bio": "..."} per line
  edges.jsonl      {"source": "...", "target": "..."} per line (source follows target)
  embeddings.csv   node2vec embeddings with a "cluster" column
  semantic.gob     bio-embedding cluster assignment (.json also accepted)`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(initOutput); err == nil && !initForce {
		exitWithError(ExitConfigError, "%s already exists (use --force to overwrite)", initOutput)
	}
	if dir := filepath.Dir(initOutput); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	if err := config.Default().Save(initOutput); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Wrote %s\n", initOutput)
		return nil
	}
	return outputJSON(StatusResponse{Status: "created", Path: initOutput})
}
