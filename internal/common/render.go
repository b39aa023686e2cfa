package common

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([\w.]+)\s*\}\}`)

// RenderTemplate substitutes {{identifier}} tokens in template with values
// from vars. Unknown or nil values render as an empty string; rendering
// never fails.
func RenderTemplate(template string, vars map[string]interface{}) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(token string) string {
		key := placeholderRe.FindStringSubmatch(token)[1]
		value, ok := vars[key]
		if !ok || value == nil {
			return ""
		}
		return fmt.Sprint(value)
	})
}

// ToCSV encodes rows into a CSV string with the given header order. Values
// containing quotes, commas or newlines are quoted.
func ToCSV(headers []string, rows []map[string]string) string {
	if len(rows) == 0 && len(headers) == 0 {
		return ""
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	// Writes to a strings.Builder cannot fail.
	_ = w.Write(headers)
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			record[i] = row[h]
		}
		_ = w.Write(record)
	}
	w.Flush()
	return b.String()
}
