package documents

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pieterb/rackful/resource"
	"github.com/pieterb/rackful/rfc9110"
	"github.com/pieterb/rackful/store"
)

// Representations of every collection. JSON is preferred; the HTML index
// is there for browsers, which send text/html without a q-value.
var collectionTable = resource.Merge(
	resource.NewTable("application/json").With("text/plain; charset=utf-8", 0.3),
	resource.NewTable().With("text/plain; charset=utf-8", 0.5).With("text/html; charset=utf-8", 0.9),
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>Index of {{.Path}}</title></head>
<body>
<h1>Index of {{.Path}}</h1>
<ul>
{{- range .Entries}}
<li><a href="{{.Path}}">{{.Path}}</a> {{.ContentType}} {{.Size}}</li>
{{- end}}
</ul>
</body>
</html>
`))

// Collection lists the documents whose path starts with its own.
type Collection struct {
	path string
	docs []store.Document
	reg  *Registry
}

type entry struct {
	Path        string    `json:"path"`
	ContentType string    `json:"contentType"`
	Size        int       `json:"size"`
	Modified    time.Time `json:"modified"`
}

func (c *Collection) Path() string { return c.path }

// Collections always exist, even when nothing is below them yet.
func (c *Collection) Exists() bool { return true }

// ETag changes whenever a document is added, removed or modified.
// It is weak because the listing does not cover the document contents.
func (c *Collection) ETag() rfc9110.EntityTag {
	parts := make([][]byte, 0, len(c.docs)*2)
	for _, d := range c.docs {
		parts = append(parts, []byte(d.Path), []byte(strconv.FormatInt(d.Modified.UnixNano(), 10)))
	}
	return rfc9110.WeakETag(digest(parts...))
}

func (c *Collection) LastModified() (time.Time, bool) {
	var latest time.Time
	for _, d := range c.docs {
		if d.Modified.After(latest) {
			latest = d.Modified
		}
	}
	return latest, false
}

func (c *Collection) Representations() resource.Table {
	return collectionTable
}

func (c *Collection) Render(w io.Writer, mediaType string) error {
	entries := c.entries()
	mt, _, _ := mime.ParseMediaType(mediaType)
	switch mt {
	case "text/html":
		return indexTemplate.Execute(w, struct {
			Path    string
			Entries []entry
		}{c.path, entries})
	case "text/plain":
		for _, e := range entries {
			if _, err := fmt.Fprintln(w, e.Path); err != nil {
				return err
			}
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
}

func (c *Collection) entries() []entry {
	entries := make([]entry, 0, len(c.docs))
	for _, d := range c.docs {
		entries = append(entries, entry{
			Path:        d.Path,
			ContentType: d.ContentType,
			Size:        len(d.Body),
			Modified:    d.Modified,
		})
	}
	return entries
}

// Handlers adds POST, which stores the content as a new document with a
// generated name.
func (c *Collection) Handlers() map[string]resource.HandlerFunc {
	return map[string]resource.HandlerFunc{
		http.MethodPost: c.post,
	}
}

func (c *Collection) post(w http.ResponseWriter, r *http.Request) error {
	name := uuid.NewString()
	if _, err := c.reg.save(r, c.path+name); err != nil {
		return err
	}
	w.Header().Set("Location", name)
	w.WriteHeader(http.StatusCreated)
	return nil
}

func (c *Collection) AcceptedMediaTypes(method string) []string {
	return c.reg.accepted(method)
}
