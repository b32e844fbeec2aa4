package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/optimizer"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/taxonomy"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const promptAutoTitle = "Let the first line decide"

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "plain text resume file")
	scoreCmd.Flags().StringP("job", "J", "", "plain text job description file")
	scoreCmd.Flags().StringP("job-title", "t", "", "job title to look up in the skill taxonomy")
	scoreCmd.Flags().StringP("out", "o", "", "write the report to this file instead of stdout")
	scoreCmd.Flags().Bool("strict", false, "fail when semantic scoring is unavailable")
	scoreCmd.Flags().BoolP("yes", "y", false, "do not ask for a job title, use the first line of the job description")

	scoreCmd.MarkFlagRequired("resume")
	scoreCmd.MarkFlagRequired("job")
}

func score(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	flags := cmd.Flags()
	resumePath, _ := flags.GetString("resume")
	jobPath, _ := flags.GetString("job")
	jobTitle, _ := flags.GetString("job-title")
	out, _ := flags.GetString("out")
	strict, _ := flags.GetBool("strict")
	yes, _ := flags.GetBool("yes")

	resumeText, err := readText(resumePath)
	if err != nil {
		logger.Fatal("reading resume", zap.Error(err))
	}
	jobText, err := readText(jobPath)
	if err != nil {
		logger.Fatal("reading job description", zap.Error(err))
	}

	tax, err := resolveTaxonomy(ctx, config.Taxonomy, strict, logger)
	if err != nil {
		logger.Fatal("loading skill taxonomy", zap.Error(err),
			zap.String("hint", "set taxonomy.source in the config file or the RESUME_MATCHER_TAXONOMY environment variable"),
		)
	}

	soft, err := loadSoftSkills(ctx, config.Taxonomy, logger)
	if err != nil {
		logger.Warn("soft skill analysis disabled", zap.Error(err))
		soft = nil
	}

	enc, err := newEncoder(ctx, config.Embedding, logger)
	if err != nil {
		if strict {
			logger.Fatal("creating an embedding encoder", zap.Error(err))
		}
		logger.Warn("semantic scoring disabled", zap.Error(err))
		enc = nil
	}

	if tax != nil && strings.TrimSpace(jobTitle) == "" && !yes {
		jobTitle, err = chooseJobTitle(tax, matching.FirstLine(jobText), config.Matching.JobTitleLimit)
		if err != nil {
			logger.Warn("job title prompt failed, using the first line of the job description", zap.Error(err))
		}
	}

	opt := optimizer.New(tax, logger)
	opt.ReplaceThreshold = config.Matching.ReplaceThreshold
	opt.AlignmentThreshold = config.Matching.AlignmentThreshold

	scorer := scoring.New(enc, logger)
	scorer.KeywordWeight = config.Scoring.KeywordWeight
	scorer.SemanticWeight = config.Scoring.SemanticWeight

	analyzer := matching.New(
		matching.Config{JobTitleLimit: config.Matching.JobTitleLimit, Strict: strict},
		matching.Deps{Taxonomy: tax, SoftSkills: soft, Optimizer: opt, Scorer: scorer, Logger: logger},
	)

	report, err := analyzer.Analyze(ctx, matching.Request{ResumeText: resumeText, JobText: jobText, JobTitle: jobTitle})
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	if err := writeJSON(out, report); err != nil {
		logger.Fatal("writing the report", zap.Error(err))
	}
}

// chooseJobTitle asks the user to pick one of the best matching titles for
// query. An empty result means the pipeline picks the title itself.
func chooseJobTitle(tax *taxonomy.Taxonomy, query string, limit int) (string, error) {
	matches := tax.FindJobTitleMatches(query, limit)
	if len(matches) == 0 {
		return "", nil
	}

	items := make([]string, 0, len(matches)+1)
	for _, match := range matches {
		items = append(items, match.Title)
	}
	items = append(items, promptAutoTitle)

	prompt := promptui.Select{
		Label: fmt.Sprintf("Choose a job title for %q and press ENTER", query),
		Items: items,
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if selected == promptAutoTitle {
		return "", nil
	}
	return selected, nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("file %q is empty", path)
	}
	return text, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
