package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spigell/resume-matcher/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect the job title to skills taxonomy",
}

var taxonomyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the taxonomy as an id,skills csv table",
	Run: func(cmd *cobra.Command, _ []string) {
		exportTaxonomy(cmd)
	},
}

var taxonomyMatchCmd = &cobra.Command{
	Use:   "match <job title>",
	Short: "Show the job titles that best match a query",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		matchTaxonomy(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.AddCommand(taxonomyExportCmd, taxonomyMatchCmd)

	taxonomyExportCmd.Flags().StringP("out", "o", "", "csv file to write")
	taxonomyExportCmd.MarkFlagRequired("out")

	taxonomyMatchCmd.Flags().IntP("limit", "l", 0, "number of matches to show (default is matching.job-title-limit)")
}

func exportTaxonomy(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	tax, err := loadTaxonomy(context.Background(), config.Taxonomy, logger)
	if err != nil {
		logger.Fatal("loading skill taxonomy", zap.Error(err))
	}

	out, _ := cmd.Flags().GetString("out")
	if err := writeFile(out, func(f *os.File) error { return tax.WriteCSV(f) }); err != nil {
		logger.Fatal("exporting taxonomy", zap.Error(err))
	}

	logger.Info("taxonomy exported", zap.String("path", out), zap.Int("records", tax.Len()))
}

func matchTaxonomy(cmd *cobra.Command, query string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	tax, err := loadTaxonomy(context.Background(), config.Taxonomy, logger)
	if err != nil {
		logger.Fatal("loading skill taxonomy", zap.Error(err))
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = config.Matching.JobTitleLimit
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tTITLE\tSKILLS")
	for _, match := range tax.FindJobTitleMatches(query, limit) {
		fmt.Fprintf(w, "%d\t%s\t%s\n", match.Score, match.Title, strings.Join(tax.SkillsFor(match), ", "))
	}
	if err := w.Flush(); err != nil {
		logger.Fatal("printing matches", zap.Error(err))
	}
}
