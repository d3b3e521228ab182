package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muhammadolammi/resumind/internal/analyzer"
	"github.com/muhammadolammi/resumind/internal/extract"
	"github.com/muhammadolammi/resumind/internal/jobs"
	"github.com/muhammadolammi/resumind/internal/scoring"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Parse one resume and score it offline",
	Long:  "Extract the candidate profile from a local resume file and score it against a job title from the catalogue or an explicit skill list. Nothing is stored.",
	RunE:  runAnalyze,
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List the job catalogue",
	RunE:  runJobs,
}

var (
	analyzeFile   string
	analyzeJob    string
	analyzeSkills []string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to a .pdf, .docx or .txt resume (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Job title; catalogue titles bring their default skills")
	analyzeCmd.Flags().StringSliceVarP(&analyzeSkills, "skills", "s", nil, "Required skills, comma separated (overrides catalogue skills)")
	_ = analyzeCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(jobsCmd)
}

type analysisOutput struct {
	Filename    string            `json:"filename"`
	Warning     string            `json:"warning,omitempty"`
	Profile     analyzer.Profile  `json:"profile"`
	Requirement jobs.Requirement  `json:"requirement"`
	Analysis    scoring.Breakdown `json:"analysis"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	out, err := analyzeLocalFile(analyzeFile, analyzeJob, analyzeSkills)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func analyzeLocalFile(path, title string, skills []string) (analysisOutput, error) {
	name := filepath.Base(path)
	format, err := extract.FormatFromFilename(name)
	if err != nil {
		return analysisOutput{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return analysisOutput{}, fmt.Errorf("failed to read input file: %w", err)
	}

	out := analysisOutput{Filename: name}
	text, err := extract.Extract(extract.RawDocument{Content: content, Format: format})
	if err != nil {
		out.Warning = err.Error()
	}

	title = strings.TrimSpace(title)
	req := jobs.Requirement{JobTitle: title, RequiredSkills: jobs.SkillsFor(title)}
	if len(skills) > 0 {
		req.RequiredSkills = skills
	}

	out.Profile = analyzer.Analyze(text)
	out.Requirement = req
	out.Analysis = scoring.Score(out.Profile, req)
	return out, nil
}

func runJobs(cmd *cobra.Command, _ []string) error {
	return writeJSON(cmd.OutOrStdout(), jobs.Titles())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
