package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/sections"
	"github.com/spigell/resume-matcher/internal/textnorm"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Split a resume into sections and titled blocks",
	Long: "Split a resume into sections and titled blocks. The flattened title to lines map is printed as JSON; " +
		"--csv and --json additionally export the table view and the full section tree.",
	Run: func(cmd *cobra.Command, _ []string) {
		splitSections(cmd)
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)

	sectionsCmd.Flags().StringP("input", "i", "", "plain text resume file")
	sectionsCmd.Flags().String("csv", "", "export the flattened sections as a csv table")
	sectionsCmd.Flags().String("json", "", "export the section tree as json")

	sectionsCmd.MarkFlagRequired("input")
}

func splitSections(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	flags := cmd.Flags()
	input, _ := flags.GetString("input")
	csvPath, _ := flags.GetString("csv")
	jsonPath, _ := flags.GetString("json")

	text, err := readText(input)
	if err != nil {
		logger.Fatal("reading input", zap.Error(err))
	}

	segmenter := sections.New(
		sections.WithThreshold(config.Sections.HeaderThreshold),
		sections.WithLogger(logger),
	)

	tree := segmenter.Build(textnorm.Normalize(text))
	flat := sections.Flatten(tree)

	logger.Info("resume segmented",
		zap.Int("sections", len(tree.Sections)),
		zap.Int("titles", flat.Len()),
	)

	if csvPath != "" {
		if err := writeFile(csvPath, func(f *os.File) error { return sections.WriteCSV(f, flat) }); err != nil {
			logger.Fatal("exporting csv", zap.Error(err))
		}
		logger.Info("csv exported", zap.String("path", csvPath))
	}

	if jsonPath != "" {
		if err := writeFile(jsonPath, func(f *os.File) error { return sections.WriteJSON(f, tree) }); err != nil {
			logger.Fatal("exporting json", zap.Error(err))
		}
		logger.Info("section tree exported", zap.String("path", jsonPath))
	}

	if err := writeJSON("", flat); err != nil {
		logger.Fatal("printing sections", zap.Error(err))
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
