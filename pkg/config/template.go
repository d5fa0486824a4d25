package config

import (
	"bytes"
	"fmt"
)

// TemplateHeader is written at the top of generated configuration files.
const TemplateHeader = `# valreport configuration
#
# max_issues_per_code: issues of one processor|code class kept per compiled report
# default_filename:    source name used when a report carries none
# format:              table format override (defaults to the filename extension)
# preset:              only merge reports of this preset (tabular, geojson, document)
# ignore:              glob patterns of snapshot files to skip
# backups:             sidecar backup of an existing output before overwriting`

// GenerateTemplate creates a commented configuration file with default values.
func GenerateTemplate() ([]byte, error) {
	content, err := NewConfig().ToYAMLWithHeader(TemplateHeader)
	if err != nil {
		return nil, fmt.Errorf("generate template: %w", err)
	}
	if !bytes.HasSuffix(content, []byte("\n")) {
		content = append(content, '\n')
	}
	return content, nil
}
