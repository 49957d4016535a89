package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/geospy/geospy-api/internal/db"
	"github.com/geospy/geospy-api/internal/service"
)

const (
	reportFormatTable = "table"
	reportFormatYAML  = "yaml"
)

type reportOptions struct {
	Username   string
	ProjectID  uint
	AnalysisID uint
	Format     string
}

func NewReportCommand() *cobra.Command {
	var configFilePath string
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a project's recommendations grouped by priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != reportFormatTable && opts.Format != reportFormatYAML {
				return fmt.Errorf("unknown format %q, want %s or %s", opts.Format, reportFormatTable, reportFormatYAML)
			}

			cfg, logger, err := bootstrap(configFilePath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			dbConn, closeDB, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			defer closeDB()

			user, err := service.GetUserByUsername(dbConn, opts.Username)
			if err != nil {
				return fmt.Errorf("user %q: %w", opts.Username, err)
			}
			var summary *analysisSummary
			if opts.AnalysisID != 0 {
				row, err := service.GetAnalysis(dbConn, user.ID, opts.ProjectID, opts.AnalysisID)
				if err != nil {
					return fmt.Errorf("analysis %d: %w", opts.AnalysisID, err)
				}
				summary = summarizeAnalysis(row)
			}
			recs, err := service.ListRecommendations(dbConn, user.ID, opts.ProjectID, opts.AnalysisID)
			if err != nil {
				return err
			}
			return renderReport(cmd.OutOrStdout(), summary, service.GroupByPriority(recs), opts.Format)
		},
	}

	addConfigFlag(cmd, &configFilePath)
	cmd.Flags().StringVarP(&opts.Username, "user", "u", "admin", "owner of the project")
	cmd.Flags().UintVar(&opts.ProjectID, "project", 0, "project id")
	cmd.Flags().UintVar(&opts.AnalysisID, "analysis", 0, "analysis id (default: all analyses)")
	cmd.Flags().StringVarP(&opts.Format, "format", "o", reportFormatTable, "output format: table or yaml")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

// analysisSummary is the topic outline of one stored analysis.
type analysisSummary struct {
	ID               uint     `yaml:"id"`
	Topics           int      `yaml:"topics"`
	DepthScore       int      `yaml:"depth_score"`
	SemanticCoverage *float64 `yaml:"semantic_coverage,omitempty"`
	Present          []string `yaml:"present"`
	Weak             []string `yaml:"weak"`
	Missing          []string `yaml:"missing"`
}

func summarizeAnalysis(row *db.AnalysisResult) *analysisSummary {
	res := row.Result()
	return &analysisSummary{
		ID:               row.ID,
		Topics:           len(res.Universe()),
		DepthScore:       res.DepthScore,
		SemanticCoverage: res.CompetitorCoverage.SemanticCoverage,
		Present:          res.TopicsPresent,
		Weak:             res.TopicsWeak,
		Missing:          res.TopicsMissing,
	}
}

func renderReport(w io.Writer, summary *analysisSummary, groups service.RecommendationGroups, format string) error {
	if format == reportFormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reportDocument(summary, groups)); err != nil {
			return err
		}
		return enc.Close()
	}

	if summary != nil {
		renderSummary(w, summary)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Priority", "Category", "Title", "Actions", "Expected impact"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 48},
		{Name: "Actions", WidthMax: 60},
		{Name: "Expected impact", WidthMax: 40},
	})

	for _, bucket := range [][]db.Recommendation{groups.High, groups.Medium, groups.Low} {
		for _, r := range bucket {
			t.AppendRow(table.Row{
				text.Bold.Sprint(strings.ToUpper(string(r.Priority))),
				r.Category,
				r.Title,
				actionSummary(r),
				r.ExpectedImpact,
			})
		}
		if len(bucket) > 0 {
			t.AppendSeparator()
		}
	}
	t.AppendFooter(table.Row{"", "", "Total", groups.Total(), ""})
	t.Render()
	return nil
}

func renderSummary(w io.Writer, s *analysisSummary) {
	semantic := "n/a"
	if s.SemanticCoverage != nil {
		semantic = fmt.Sprintf("%.1f%%", *s.SemanticCoverage)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Analysis %d", s.ID))
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 80}})
	t.AppendRows([]table.Row{
		{"Depth score", s.DepthScore},
		{"Semantic coverage", semantic},
		{"Topics", s.Topics},
		{"Present", strings.Join(s.Present, ", ")},
		{"Weak", strings.Join(s.Weak, ", ")},
		{"Missing", strings.Join(s.Missing, ", ")},
	})
	t.Render()
}

func actionSummary(r db.Recommendation) string {
	lines := make([]string, 0, len(r.ActionItems))
	for _, item := range r.ActionItems {
		lines = append(lines, fmt.Sprintf("%d. %s", item.Step, item.Action))
	}
	return strings.Join(lines, "\n")
}

type reportItem struct {
	Category    string   `yaml:"category"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Actions     []string `yaml:"actions,omitempty"`
	Impact      string   `yaml:"expected_impact"`
}

type reportDoc struct {
	Analysis *analysisSummary `yaml:"analysis,omitempty"`
	High     []reportItem     `yaml:"high"`
	Medium   []reportItem     `yaml:"medium"`
	Low      []reportItem     `yaml:"low"`
}

func reportDocument(summary *analysisSummary, groups service.RecommendationGroups) reportDoc {
	convert := func(recs []db.Recommendation) []reportItem {
		items := make([]reportItem, 0, len(recs))
		for _, r := range recs {
			it := reportItem{
				Category:    string(r.Category),
				Title:       r.Title,
				Description: r.Description,
				Impact:      r.ExpectedImpact,
			}
			for _, a := range r.ActionItems {
				it.Actions = append(it.Actions, a.Action)
			}
			items = append(items, it)
		}
		return items
	}
	return reportDoc{
		Analysis: summary,
		High:     convert(groups.High),
		Medium:   convert(groups.Medium),
		Low:      convert(groups.Low),
	}
}
