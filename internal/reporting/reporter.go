package reporting

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/loginprobe/api/schemas"
)

// Reporter defines the interface for writing a run report to an output.
type Reporter interface {
	// Write renders the report to the underlying output.
	Write(report *schemas.RunReport) error
	// Close finalizes the report and closes any underlying resources.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error { return nil }

// New creates a reporter for the given format. An empty or "stdout" path
// writes to standard output.
func New(format, outputPath string) (Reporter, error) {
	var writer io.WriteCloser
	isStdout := outputPath == "" || outputPath == "stdout"

	if isStdout {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch format {
	case "json":
		return newJSONReporter(writer), nil
	case "text":
		return newTextReporter(writer), nil
	default:
		if !isStdout {
			writer.Close()
		}
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// jsonReporter renders the report as indented JSON for machine consumption.
type jsonReporter struct {
	w io.WriteCloser
}

func newJSONReporter(w io.WriteCloser) *jsonReporter {
	return &jsonReporter{w: w}
}

func (r *jsonReporter) Write(report *schemas.RunReport) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func (r *jsonReporter) Close() error { return r.w.Close() }

// textReporter renders a human-readable summary: totals, success rate to one
// decimal place, and one line per scenario.
type textReporter struct {
	w io.WriteCloser
}

func newTextReporter(w io.WriteCloser) *textReporter {
	return &textReporter{w: w}
}

func (r *textReporter) Write(report *schemas.RunReport) error {
	var sb []byte
	sb = append(sb, "==================================================\n"...)
	sb = append(sb, "LOGIN SCENARIO RUN REPORT\n"...)
	sb = append(sb, "==================================================\n"...)
	sb = appendLine(sb, "Run ID:       %s", report.RunID)
	sb = appendLine(sb, "Generated:    %s", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	sb = appendLine(sb, "Total Tests:  %d", report.Total)
	sb = appendLine(sb, "Passed:       %d", report.Passed)
	sb = appendLine(sb, "Failed:       %d", report.Failed)
	sb = appendLine(sb, "Errors:       %d", report.Errored)
	sb = appendLine(sb, "Success Rate: %.1f%%", report.SuccessRate)
	sb = append(sb, '\n')

	for _, res := range report.Results {
		sb = appendLine(sb, "[%s] %s (expected: %s, actual: %s)",
			res.Status, res.ScenarioName, res.Expected, res.Actual)
		if res.Error != "" {
			sb = appendLine(sb, "        error: %s", res.Error)
		}
	}

	if _, err := r.w.Write(sb); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (r *textReporter) Close() error { return r.w.Close() }

func appendLine(b []byte, format string, args ...any) []byte {
	return fmt.Appendf(b, format+"\n", args...)
}
