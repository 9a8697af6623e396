package mock

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/wireform/packages/body"
	"github.com/abdul-hamid-achik/wireform/packages/mediatype"
)

// Inspection is the JSON description an inspecting route answers with.
type Inspection struct {
	Method        string            `json:"method"`
	Path          string            `json:"path"`
	Params        map[string]string `json:"params,omitempty"`
	ContentType   string            `json:"contentType,omitempty"`
	ContentLength int64             `json:"contentLength"`
	Chunked       bool              `json:"chunked"`
	Size          int               `json:"size"`
	Fields        []Field           `json:"fields,omitempty"`
	Parts         []InspectedPart   `json:"parts,omitempty"`
	Text          string            `json:"text,omitempty"`
}

// Field is one url-encoded name/value pair.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// InspectedPart describes one multipart part. Files holds the members of a
// nested multipart/mixed part.
type InspectedPart struct {
	Name             string          `json:"name,omitempty"`
	Filename         string          `json:"filename,omitempty"`
	ContentType      string          `json:"contentType,omitempty"`
	TransferEncoding string          `json:"transferEncoding,omitempty"`
	Size             int             `json:"size"`
	Value            string          `json:"value,omitempty"`
	Files            []InspectedPart `json:"files,omitempty"`
}

// Inspect reads the request body and describes it.
func Inspect(r *http.Request) (*Inspection, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}

	in := &Inspection{
		Method:        r.Method,
		Path:          r.URL.Path,
		ContentType:   r.Header.Get("Content-Type"),
		ContentLength: r.ContentLength,
		Chunked:       len(r.TransferEncoding) > 0 && r.TransferEncoding[0] == "chunked",
		Size:          len(data),
	}

	if in.ContentType == "" {
		in.Text = printable(data)
		return in, nil
	}

	ct, err := mediatype.Parse(in.ContentType)
	if err != nil {
		return nil, err
	}

	switch ct.MediaType() {
	case mediatype.FormURLEncoded:
		fields, err := body.ParseURLEncoded(string(data))
		if err != nil {
			return nil, fmt.Errorf("decoding form: %w", err)
		}
		for _, f := range fields {
			in.Fields = append(in.Fields, Field{Name: f.Name, Value: f.Value})
		}
	case mediatype.MultipartForm:
		parts, err := inspectMultipart(bytes.NewReader(data), ct.Boundary())
		if err != nil {
			return nil, err
		}
		in.Parts = parts
	default:
		in.Text = printable(data)
	}

	return in, nil
}

func inspectMultipart(r io.Reader, boundary string) ([]InspectedPart, error) {
	if boundary == "" {
		return nil, fmt.Errorf("multipart body without boundary")
	}

	mr := multipart.NewReader(r, boundary)
	var parts []InspectedPart
	for {
		p, err := mr.NextRawPart()
		if err == io.EOF {
			return parts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading multipart body: %w", err)
		}

		part, err := inspectPart(p)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
}

func inspectPart(p *multipart.Part) (InspectedPart, error) {
	content, err := io.ReadAll(p)
	if err != nil {
		return InspectedPart{}, fmt.Errorf("reading part %q: %w", p.FormName(), err)
	}

	part := InspectedPart{
		Name:             p.FormName(),
		Filename:         p.FileName(),
		ContentType:      p.Header.Get("Content-Type"),
		TransferEncoding: p.Header.Get("Content-Transfer-Encoding"),
	}

	if strings.EqualFold(part.TransferEncoding, "base64") {
		decoded, err := base64.StdEncoding.DecodeString(string(content))
		if err != nil {
			return InspectedPart{}, fmt.Errorf("decoding part %q: %w", part.Name, err)
		}
		content = decoded
	}
	part.Size = len(content)

	if part.ContentType != "" {
		if ct, err := mediatype.Parse(part.ContentType); err == nil && ct.MediaType() == mediatype.MultipartMixed {
			files, err := inspectMultipart(bytes.NewReader(content), ct.Boundary())
			if err != nil {
				return InspectedPart{}, err
			}
			part.Files = files
			return part, nil
		}
	}

	if part.Filename == "" {
		part.Value = string(content)
	}
	return part, nil
}

// printable returns data as a string when it is valid UTF-8.
func printable(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return ""
}
