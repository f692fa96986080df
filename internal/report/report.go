// Package report 将扫描结果输出为文本、JSON 或 CSV。
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"git-keyscan/internal/scan"
)

// Format 是输出格式。
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat 解析 --format 参数，空串视为 text。
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText, "table":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: text, json, csv)", s)
	}
}

// Write 按指定格式输出结果。
func Write(out io.Writer, format Format, result *scan.Result) error {
	switch format {
	case FormatJSON:
		return WriteJSON(out, result)
	case FormatCSV:
		return WriteCSV(out, result)
	default:
		return WriteText(out, result)
	}
}

// WriteText 输出按仓库分组的文本报告。
func WriteText(out io.Writer, result *scan.Result) error {
	if len(result.Repositories) == 0 {
		_, err := fmt.Fprintln(out, "No repositories found or unable to fetch repositories.")
		return err
	}

	if !result.HasFindings() {
		_, err := fmt.Fprintln(out, "No API keys found in any repository.")
		return err
	}

	if _, err := fmt.Fprintln(out, "\nPotential API keys found:"); err != nil {
		return err
	}
	for _, rr := range result.Repositories {
		if len(rr.Findings) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(out, "\nRepository: %s\n", rr.Repository.Name); err != nil {
			return err
		}
		for _, f := range rr.Findings {
			if _, err := fmt.Fprintf(out, "  File: %s | Key: %s | Position: %d\n", f.Path, f.Key, f.Position); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON 输出所有结果组成的 JSON 数组，没有结果时输出 []。
func WriteJSON(out io.Writer, result *scan.Result) error {
	findings := result.Findings()
	if findings == nil {
		findings = []scan.Finding{}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// WriteCSV 输出带表头的 CSV。
func WriteCSV(out io.Writer, result *scan.Result) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"repository", "file", "rule", "key", "position"}); err != nil {
		return err
	}
	for _, f := range result.Findings() {
		if err := w.Write([]string{f.Repository, f.Path, f.Rule, f.Key, strconv.Itoa(f.Position)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
