package documents

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pieterb/rackful/resource"
	"github.com/pieterb/rackful/rfc9110"
	"github.com/pieterb/rackful/status"
	"github.com/pieterb/rackful/store"
)

// Document is a single stored representation.
// It is a snapshot taken at lookup time.
type Document struct {
	path   string
	doc    store.Document
	exists bool
	reg    *Registry
}

func (d *Document) Path() string { return d.path }
func (d *Document) Exists() bool { return d.exists }

// ETag is a digest of the content and its media type.
func (d *Document) ETag() rfc9110.EntityTag {
	return rfc9110.StrongETag(digest([]byte(d.doc.ContentType), []byte{0}, d.doc.Body))
}

// LastModified is weak: two writes within a second share a date.
func (d *Document) LastModified() (time.Time, bool) {
	return d.doc.Modified, false
}

// Documents have exactly the representation they were stored with.
func (d *Document) Representations() resource.Table {
	return resource.NewTable(d.contentType())
}

func (d *Document) Render(w io.Writer, mediaType string) error {
	_, err := w.Write(d.doc.Body)
	return err
}

func (d *Document) Put(w http.ResponseWriter, r *http.Request) error {
	_, err := d.reg.save(r, d.path)
	return err
}

func (d *Document) Destroy(r *http.Request) (http.Header, error) {
	if _, err := d.reg.store.Delete(d.path); err != nil {
		return nil, errors.Wrapf(err, "deleting %s", d.path)
	}
	return nil, nil
}

func (d *Document) AcceptedMediaTypes(method string) []string {
	return d.reg.accepted(method)
}

func (d *Document) contentType() string {
	if d.doc.ContentType == "" {
		return defaultContentType
	}
	return d.doc.ContentType
}

// validate rejects JSON content that does not parse.
func validate(contentType string, body []byte) error {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return status.Parse("malformed Content-Type %q", contentType)
	}
	if mt != "application/json" && !strings.HasSuffix(mt, "+json") {
		return nil
	}
	if !json.Valid(body) {
		return status.Unprocessable("content is not valid JSON")
	}
	return nil
}
