package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/influencer-cli/internal/actor"
	"github.com/sells-group/influencer-cli/internal/pipeline"
	"github.com/sells-group/influencer-cli/pkg/apify"
)

var (
	harvestFormat    string
	harvestOutputDir string
	harvestAllBios   bool
	harvestNoStore   bool
)

var harvestCmd = &cobra.Command{
	Use:   "harvest <topic> [topic...]",
	Short: "Harvest influencer emails for one or more topics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if harvestFormat != "" {
			cfg.Export.Format = harvestFormat
		}
		if harvestOutputDir != "" {
			cfg.Export.OutputDir = harvestOutputDir
		}
		if harvestAllBios {
			cfg.Filter.RequireEmail = false
		}
		if harvestNoStore {
			cfg.Store.Path = ""
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		client := apify.NewClient(cfg.Apify.Token, apify.WithBaseURL(cfg.Apify.BaseURL))
		runner := actor.NewRunner(client, cfg.Apify)

		p, err := pipeline.New(cfg, runner, st)
		if err != nil {
			return err
		}

		result, err := p.Run(ctx, args)
		if err != nil {
			return eris.Wrap(err, "harvest run")
		}

		summary := summarize(args, result)
		zap.L().Info("harvest complete",
			zap.Int("topics", len(args)),
			zap.Int("profiles", summary.TotalProfiles),
			zap.Int("with_email", summary.TotalWithEmail),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	harvestCmd.Flags().StringVar(&harvestFormat, "format", "", "export format: csv or json (default from config)")
	harvestCmd.Flags().StringVar(&harvestOutputDir, "output-dir", "", "directory for export files (default from config)")
	harvestCmd.Flags().BoolVar(&harvestAllBios, "all", false, "keep profiles without an email address")
	harvestCmd.Flags().BoolVar(&harvestNoStore, "no-store", false, "skip recording this run in the history database")
	rootCmd.AddCommand(harvestCmd)
}

// harvestSummary is the JSON document printed after a harvest.
type harvestSummary struct {
	Topics         []topicSummary    `json:"topics"`
	TotalProfiles  int               `json:"total_profiles"`
	TotalWithEmail int               `json:"total_with_email"`
	Outputs        []string          `json:"outputs,omitempty"`
	Notices        []pipeline.Notice `json:"notices,omitempty"`
}

type topicSummary struct {
	Topic     string `json:"topic"`
	Profiles  int    `json:"profiles"`
	WithEmail int    `json:"with_email"`
}

// summarize flattens a pipeline result into per-topic counts, keeping
// the order topics were requested in.
func summarize(topics []string, result *pipeline.Result) harvestSummary {
	summary := harvestSummary{
		Topics:  make([]topicSummary, 0, len(topics)),
		Outputs: result.Outputs,
		Notices: result.Notices,
	}

	for _, topic := range topics {
		profiles := result.Topics[topic]
		withEmail := 0
		for _, p := range profiles {
			if p.HasEmail {
				withEmail++
			}
		}
		summary.Topics = append(summary.Topics, topicSummary{
			Topic:     topic,
			Profiles:  len(profiles),
			WithEmail: withEmail,
		})
		summary.TotalProfiles += len(profiles)
		summary.TotalWithEmail += withEmail
	}
	return summary
}
