package body

import (
	"encoding/base64"
	"strings"

	"github.com/abdul-hamid-achik/wireform/packages/mediatype"
)

const crlf = "\r\n"

// preparedFile is a File whose content type has already been validated.
type preparedFile struct {
	File
	contentType mediatype.ContentType
}

// preparedPart carries a validated Part through to emission.
type preparedPart struct {
	part  Part
	files []preparedFile
}

// prepareParts validates every name, filename and content type in parts so
// that failures surface before a single byte is produced.
func prepareParts(parts []Part) ([]preparedPart, error) {
	prepared := make([]preparedPart, 0, len(parts))
	for _, p := range parts {
		if p == nil {
			return nil, unsupported("part", p)
		}
		if err := checkHeaderValue("field name", p.FieldName()); err != nil {
			return nil, err
		}

		pp := preparedPart{part: p}
		switch v := p.(type) {
		case NameValue:
		case FormFile:
			f, err := prepareFile(v.File)
			if err != nil {
				return nil, err
			}
			pp.files = []preparedFile{f}
		case MultipartMixed:
			pp.files = make([]preparedFile, 0, len(v.Files))
			for _, file := range v.Files {
				f, err := prepareFile(file)
				if err != nil {
					return nil, err
				}
				pp.files = append(pp.files, f)
			}
		default:
			return nil, unsupported("part", p)
		}
		prepared = append(prepared, pp)
	}
	return prepared, nil
}

func prepareFile(f File) (preparedFile, error) {
	if err := checkHeaderValue("filename", f.Filename); err != nil {
		return preparedFile{}, err
	}

	ct, err := mediatype.Parse(f.ContentType)
	if err != nil {
		return preparedFile{}, err
	}

	switch c := f.Content.(type) {
	case Plain, Binary:
	case Stream:
		if c.Reader == nil {
			return preparedFile{}, unsupported("nil stream for "+f.Filename, c)
		}
	default:
		return preparedFile{}, unsupported("content", f.Content)
	}

	return preparedFile{File: f, contentType: ct}, nil
}

// multipartWriter emits the multipart/form-data framing into a payloadBuilder.
type multipartWriter struct {
	out              *payloadBuilder
	boundaries       BoundaryGenerator
	fieldContentType bool
	charset          string
}

func (w *multipartWriter) writeForm(outer string, parts []preparedPart) error {
	for _, pp := range parts {
		w.out.WriteString("--" + outer + crlf)

		switch v := pp.part.(type) {
		case NameValue:
			if err := w.writeField(v); err != nil {
				return err
			}
		case FormFile:
			w.out.WriteString(`Content-Disposition: form-data; name="` + escapeQuotes(v.Field) +
				`"; filename="` + escapeQuotes(pp.files[0].Filename) + `"` + crlf)
			w.writeFile(v.Field, pp.files[0])
		case MultipartMixed:
			w.writeMixed(v.Field, pp.files)
		}

		w.out.WriteString(crlf)
	}

	w.out.WriteString("--" + outer + "--" + crlf)
	return nil
}

func (w *multipartWriter) writeField(f NameValue) error {
	w.out.WriteString(`Content-Disposition: form-data; name="` + escapeQuotes(f.Name) + `"` + crlf)
	if !w.fieldContentType {
		w.out.WriteString(crlf)
		w.out.WriteString(f.Value)
		return nil
	}

	value, err := encodeString(f.Value, w.charset)
	if err != nil {
		return err
	}
	ct := mediatype.New("text", "plain").WithCharset(w.charset)
	w.out.WriteString("Content-Type: " + ct.String() + crlf + crlf)
	w.out.Write(value)
	return nil
}

// writeMixed emits a multipart/mixed body nested under field, using a
// boundary of its own.
func (w *multipartWriter) writeMixed(field string, files []preparedFile) {
	inner := w.boundaries.Next()
	ct := mediatype.New("multipart", "mixed").WithBoundary(inner)

	w.out.WriteString(`Content-Disposition: form-data; name="` + escapeQuotes(field) + `"` + crlf)
	w.out.WriteString("Content-Type: " + ct.String() + crlf + crlf)

	for _, f := range files {
		w.out.WriteString("--" + inner + crlf)
		w.out.WriteString(`Content-Disposition: file; filename="` + escapeQuotes(f.Filename) + `"` + crlf)
		w.writeFile(field, f)
		w.out.WriteString(crlf)
	}
	w.out.WriteString("--" + inner + "--" + crlf)
}

// writeFile emits the transfer-encoding and content-type headers followed by
// the content. The Content-Disposition line has already been written.
func (w *multipartWriter) writeFile(field string, f preparedFile) {
	switch c := f.Content.(type) {
	case Binary:
		w.out.WriteString("Content-Transfer-Encoding: base64" + crlf)
		w.out.WriteString("Content-Type: " + f.contentType.String() + crlf + crlf)
		w.out.WriteString(base64.StdEncoding.EncodeToString(c.Data))
	case Plain:
		w.out.WriteString("Content-Type: " + f.contentType.String() + crlf + crlf)
		w.out.WriteString(c.Text)
	case Stream:
		w.out.WriteString("Content-Type: " + f.contentType.String() + crlf + crlf)
		w.out.stream(field, f.Filename, c.Reader)
	}
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func checkHeaderValue(what, s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return &FieldError{What: what, Value: s}
	}
	return nil
}
