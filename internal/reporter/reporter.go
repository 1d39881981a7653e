package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fenilsonani/devclean/internal/project"
	"github.com/fenilsonani/devclean/pkg/utils"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// ValidFormat reports whether s names a supported output format.
func ValidFormat(s string) bool {
	switch OutputFormat(s) {
	case FormatTable, FormatJSON, FormatYAML, FormatSummary:
		return true
	}
	return false
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report generates a report of the discovered projects
func (r *Reporter) Report(projects project.Projects) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(projects)
	case FormatJSON:
		return r.reportJSON(projects)
	case FormatYAML:
		return r.reportYAML(projects)
	case FormatSummary:
		return r.reportSummary(projects)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary generates a summary report
func (r *Reporter) reportSummary(projects project.Projects) error {
	fmt.Fprintf(r.writer, "=== Projects Found ===\n")
	fmt.Fprintf(r.writer, "Total Projects: %d\n", len(projects))
	fmt.Fprintf(r.writer, "Reclaimable Size: %s\n", utils.FormatBytes(projects.TotalSize()))

	stats := projects.StatsByKind()
	if len(stats) > 0 {
		fmt.Fprintf(r.writer, "\nBreakdown by Type:\n")
		for _, stat := range stats {
			fmt.Fprintf(r.writer, "  %s %s: %d projects, %s\n",
				stat.Kind.Icon(), stat.Kind, stat.Count, utils.FormatBytes(stat.Size))
		}
	}

	return nil
}

// reportTable generates a table report
func (r *Reporter) reportTable(projects project.Projects) error {
	fmt.Fprintf(r.writer, "%-24s | %-10s | %-12s | %-19s | %s\n",
		"Project", "Type", "Size", "Last Build", "Artifacts")
	fmt.Fprintln(r.writer, strings.Repeat("-", 120))

	for _, p := range projects {
		name := p.DisplayName()
		if len(name) > 24 {
			name = name[:21] + "..."
		}

		lastBuild := "unknown"
		if !p.LastModified.IsZero() {
			lastBuild = p.LastModified.Format("2006-01-02 15:04:05")
		}

		fmt.Fprintf(r.writer, "%-24s | %-10s | %-12s | %-19s | %s\n",
			name,
			p.Kind,
			utils.FormatBytes(p.Artifacts.Size),
			lastBuild,
			p.Artifacts.Path)
	}

	fmt.Fprintln(r.writer, strings.Repeat("-", 120))
	fmt.Fprintf(r.writer, "Total: %d projects, %s\n",
		len(projects), utils.FormatBytes(projects.TotalSize()))

	return nil
}

type reportDoc struct {
	Timestamp          string           `json:"timestamp" yaml:"timestamp"`
	TotalProjects      int              `json:"total_projects" yaml:"total_projects"`
	TotalSize          int64            `json:"total_size" yaml:"total_size"`
	TotalSizeFormatted string           `json:"total_size_formatted" yaml:"total_size_formatted"`
	Projects           project.Projects `json:"projects" yaml:"projects"`
}

func buildDoc(projects project.Projects) reportDoc {
	return reportDoc{
		Timestamp:          time.Now().Format(time.RFC3339),
		TotalProjects:      len(projects),
		TotalSize:          projects.TotalSize(),
		TotalSizeFormatted: utils.FormatBytes(projects.TotalSize()),
		Projects:           projects,
	}
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(projects project.Projects) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildDoc(projects))
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(projects project.Projects) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(buildDoc(projects))
}

// SaveToFile saves the report to a file
func SaveToFile(projects project.Projects, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reporter := New(file, format)
	return reporter.Report(projects)
}
