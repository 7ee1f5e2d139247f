// Package out renders action results to the terminal, either as the
// JSON envelope or as the conversational reply.
package out

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/injhive/injhive/internal/actions"
	"github.com/injhive/injhive/internal/config"
)

// Render writes a dispatch result. JSON mode prints the indented
// envelope, plain mode prints the conversational reply plus warnings.
// --select projects result fields and --results-only strips the
// envelope down to the result payload.
func Render(w io.Writer, res *actions.Result, settings config.Settings) error {
	result := res.Response.Result
	if len(settings.SelectFields) > 0 {
		result = project(result, settings.SelectFields)
	}

	if settings.ResultsOnly {
		if settings.OutputMode == "json" {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		return renderLines(w, result)
	}

	if settings.OutputMode == "json" {
		env := *res.Response
		env.Result = result
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(env)
	}

	if _, err := fmt.Fprintln(w, res.Reply); err != nil {
		return err
	}
	for _, warning := range res.Response.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}

// renderLines prints a result as key=value lines, one line per list item.
func renderLines(w io.Writer, result any) error {
	v := normalize(result)
	switch t := v.(type) {
	case nil:
		_, err := fmt.Fprintln(w, "null")
		return err
	case []any:
		if len(t) == 0 {
			_, err := fmt.Fprintln(w, "[]")
			return err
		}
		for _, item := range t {
			if _, err := fmt.Fprintln(w, toLine(item)); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(w, toLine(v))
		return err
	}
}

func toLine(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}

func project(result any, fields []string) any {
	switch t := normalize(result).(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, projectMap(m, fields))
			}
		}
		return out
	case map[string]any:
		return projectMap(t, fields)
	default:
		return t
	}
}

func projectMap(m map[string]any, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := m[f]; ok {
			out[f] = v
		}
	}
	return out
}

// normalize flattens any value into plain maps and slices through a
// JSON round trip so projection and line rendering see field tags.
func normalize(v any) any {
	buf, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(buf, &out); err != nil {
		return v
	}
	return out
}
