package status

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strings"
)

// MediaTypes lists the diagnostic renderings, preferred first.
var MediaTypes = []string{
	"text/html; charset=utf-8",
	"application/json",
	"text/plain; charset=utf-8",
}

var htmlTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Code}} {{.Reason}}</title></head>
<body>
<h1>HTTP/1.1 {{.Code}} {{.Reason}}</h1>
{{- if .Message}}
<p>{{.Message}}</p>
{{- end}}
{{- if .Header}}
<p>Failed precondition: <code>{{.Header}}</code></p>
{{- end}}
{{- if .Allow}}
<p>Allowed methods:</p>
<ul>{{range .Allow}}<li>{{.}}</li>{{end}}</ul>
{{- end}}
{{- if .MediaTypes}}
<p>Media types:</p>
<ul>{{range .MediaTypes}}<li>{{.}}</li>{{end}}</ul>
{{- end}}
</body>
</html>
`))

type diagnostic struct {
	Code       int      `json:"status"`
	Reason     string   `json:"reason"`
	Message    string   `json:"message,omitempty"`
	Header     string   `json:"header,omitempty"`
	Allow      []string `json:"allow,omitempty"`
	MediaTypes []string `json:"mediaTypes,omitempty"`
	Location   string   `json:"location,omitempty"`
}

func (e *Error) diagnostic() diagnostic {
	// the wrapped cause is logged, never sent
	return diagnostic{
		Code:       e.Code,
		Reason:     http.StatusText(e.Code),
		Message:    e.Message,
		Header:     e.Header,
		Allow:      e.Allow,
		MediaTypes: e.MediaTypes,
		Location:   e.Location,
	}
}

// Render writes a diagnostic body for the condition in the given media type.
func (e *Error) Render(w io.Writer, mediaType string) error {
	base, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		base = strings.ToLower(mediaType)
	}
	d := e.diagnostic()
	switch base {
	case "text/html":
		return htmlTemplate.Execute(w, d)
	case "application/json":
		return json.NewEncoder(w).Encode(d)
	default:
		return renderText(w, d)
	}
}

func renderText(w io.Writer, d diagnostic) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s\n", d.Code, d.Reason)
	if d.Message != "" {
		fmt.Fprintf(&b, "%s\n", d.Message)
	}
	if d.Header != "" {
		fmt.Fprintf(&b, "Failed precondition: %s\n", d.Header)
	}
	if len(d.Allow) > 0 {
		fmt.Fprintf(&b, "Allowed methods: %s\n", strings.Join(d.Allow, ", "))
	}
	if len(d.MediaTypes) > 0 {
		fmt.Fprintf(&b, "Media types: %s\n", strings.Join(d.MediaTypes, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
