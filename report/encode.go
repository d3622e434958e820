package report

import (
	"encoding/json"
	"fmt"
	"io"

	"q.log/tableau/simplex"
	"sigs.k8s.io/yaml"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Encode writes results in the structured format named by format.
func Encode(w io.Writer, results []*simplex.Result, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(results)
	case FormatJSON:
		data, err = json.MarshalIndent(results, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("report: unsupported output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
