package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/idelchi/gitdu/internal/gitdu"
)

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *gitdu.Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs one fixed-width line per report entry.
func PrintTable(report *gitdu.Report, writer io.Writer, human bool) error {
	if report.Extensions {
		for _, b := range report.Exts {
			if _, err := fmt.Fprintln(writer, gitdu.FormatExt(b, human)); err != nil {
				return err
			}
		}

		return nil
	}

	for _, n := range report.Dirs {
		if _, err := fmt.Fprintln(writer, gitdu.FormatDir(n, human)); err != nil {
			return err
		}
	}

	return nil
}
