package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/lookmlaudit/internal/assess"
	"github.com/specialistvlad/lookmlaudit/internal/model"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be 'text', 'json' or 'yaml'", s)
	}
}

// NoDataMessage is printed when the containers declare no query root.
const NoDataMessage = "No explores or joins were found in the model files. Check the models directory and try again."

// Report is what gets rendered.
type Report struct {
	Analysis *model.Analysis
	Findings []assess.Finding
	// Rows includes the relation table in the output.
	Rows bool
}

// document is the structured form used by the json and yaml formats.
type document struct {
	RunID        string                 `json:"run_id" yaml:"run_id"`
	Status       string                 `json:"status" yaml:"status"`
	Project      model.ProjectStats     `json:"project" yaml:"project"`
	Descriptions model.DescriptionStats `json:"descriptions" yaml:"descriptions"`
	Findings     []assess.Finding       `json:"findings" yaml:"findings"`
	Rows         []model.Row            `json:"rows,omitempty" yaml:"rows,omitempty"`
}

const (
	statusNoData = "no_data"
	statusOK     = "ok"
	statusIssues = "issues"
)

// Render writes r to w in the given format.
func Render(w io.Writer, f Format, r Report) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.document())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r.document()); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return renderText(w, r)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

func (r Report) status() string {
	switch {
	case r.Analysis.Empty():
		return statusNoData
	case assess.HasIssues(r.Findings):
		return statusIssues
	default:
		return statusOK
	}
}

func (r Report) document() document {
	d := document{
		RunID:        r.Analysis.RunID,
		Status:       r.status(),
		Project:      r.Analysis.Project,
		Descriptions: r.Analysis.Descriptions,
		Findings:     r.Findings,
	}
	if d.Findings == nil {
		d.Findings = []assess.Finding{}
	}
	if r.Rows {
		d.Rows = r.Analysis.Rows
	}
	return d
}

func renderText(w io.Writer, r Report) error {
	if r.Analysis.Empty() {
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}

	var b strings.Builder
	positives, issues := split(r.Findings)

	if len(issues) == 0 {
		b.WriteString("All good\n")
		b.WriteString("No files were found that violate LookML best practices.\n")
		writeFindings(&b, "Positive findings", positives)
	} else {
		b.WriteString("Observations\n")
		p := r.Analysis.Project
		fmt.Fprintf(&b, "  - Project size: %d model(s), %d view(s), %d explore(s), %d join(s).\n",
			p.Containers, p.Entities, p.Roots, p.Joins)
		if pct, ok := r.Analysis.Descriptions.RootPercent(); ok {
			fmt.Fprintf(&b, "  - Documentation coverage: %.0f%% of explores have a description.\n", pct)
		}
		if pct, ok := r.Analysis.Descriptions.JoinPercent(); ok {
			fmt.Fprintf(&b, "  - Join documentation: %.0f%% of joins have a description.\n", pct)
		}
		writeFindings(&b, "Positive findings", positives)
		writeFindings(&b, "Recommendations for improvement", issues)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if r.Rows {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		return WriteRows(w, r.Analysis.Rows)
	}
	return nil
}

func split(findings []assess.Finding) (positives, issues []assess.Finding) {
	for _, f := range findings {
		if f.Severity == assess.SeverityPositive {
			positives = append(positives, f)
		} else {
			issues = append(issues, f)
		}
	}
	return positives, issues
}

func writeFindings(b *strings.Builder, heading string, findings []assess.Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", heading)
	for _, f := range findings {
		if f.Severity == assess.SeverityPositive {
			fmt.Fprintf(b, "  - %s: %s\n", f.Title, f.Detail)
			continue
		}
		fmt.Fprintf(b, "  - %s: %s\n", f.Severity, f.Title)
		for _, line := range strings.Split(f.Render(), "\n") {
			fmt.Fprintf(b, "    %s\n", line)
		}
	}
}

// WriteRows writes the relation table.
func WriteRows(w io.Writer, rows []model.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL FILE\tEXPLORE\tROLE\tVIEW\tJOIN\tFOLDER\tCOVERAGE\tFIELDS\tEXTENDS ON")
	fmt.Fprintln(tw, "----------\t-------\t----\t----\t----\t------\t--------\t------\t----------")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ContainerPath, row.RootName, row.Role, row.EntityName,
			dash(row.JoinName), row.EntityFolder, coverage(row.Coverage), fields(row.Fields), dash(row.ExtendsOnString()))
	}
	return tw.Flush()
}

// fields renders described/total field counts.
func fields(f *model.FieldStats) string {
	if f == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d/%d", f.Described, f.Total)
}

func coverage(c *float64) string {
	if c == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.0f%%", *c*100)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
