package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"verinews/internal/service"
)

var analyzeFlags struct {
	title   string
	source  string
	remote  bool
	json    bool
	enhance bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Analyze an article read from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.title, "title", "", "Article title")
	f.StringVar(&analyzeFlags.source, "source", "", "Article source")
	f.BoolVar(&analyzeFlags.remote, "remote", false, "Ask the remote judge for a second opinion")
	f.BoolVar(&analyzeFlags.json, "json", false, "Print the full result as JSON")
	f.BoolVar(&analyzeFlags.enhance, "enhance", true, "Prefix short content with its title and source")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	content, err := readArticle(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}

	result, err := a.Analysis.Analyze(cmd.Context(), &service.AnalyzeInput{
		Content:             content,
		Title:               analyzeFlags.title,
		Source:              analyzeFlags.source,
		UseRemote:           analyzeFlags.remote,
		EnhanceShortContent: analyzeFlags.enhance,
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	out := cmd.OutOrStdout()
	if analyzeFlags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(out, result)
	return nil
}

func printResult(out io.Writer, r *service.AnalysisResult) {
	fmt.Fprintf(out, "Verdict:     %s\n", r.Verdict)
	fmt.Fprintf(out, "Confidence:  %.1f%%\n", r.Confidence*100)
	fmt.Fprintf(out, "Message:     %s\n", r.Presentation.Message)

	d := r.Diagnostics
	fmt.Fprintf(out, "Classifier:  %s\n", d.ClassifierVariant)
	if d.Remote != nil {
		if d.Remote.Succeeded {
			fmt.Fprintf(out, "Remote:      score %d/10 (%s, %s)\n", d.Remote.CredibilityScore, d.Remote.Model, d.Remote.ParseMethod)
			fmt.Fprintf(out, "Reasoning:   %s\n", d.Remote.Reasoning)
			fmt.Fprintf(out, "Recommend:   %s\n", d.Remote.Recommendation)
		} else {
			fmt.Fprintf(out, "Remote:      failed: %s\n", d.Remote.Error)
		}
	}
	if d.Error != "" {
		fmt.Fprintf(out, "Error:       %s\n", d.Error)
	}
	for _, w := range d.Warnings {
		fmt.Fprintf(out, "Warning:     %s\n", w)
	}
}
