package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlHeader = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Capital Gains Report</title></head>
<body>
`

const htmlFooter = `</body>
</html>
`

// writeHTML converts the markdown md into a standalone HTML file name.
func writeHTML(name, md string) error {
	var buf bytes.Buffer
	buf.WriteString(htmlHeader)
	converter := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := converter.Convert([]byte(md), &buf); err != nil {
		return fmt.Errorf("cannot convert report to HTML: %w", err)
	}
	buf.WriteString(htmlFooter)
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cannot write %q: %w", name, err)
	}
	return nil
}
