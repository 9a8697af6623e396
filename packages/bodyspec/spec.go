package bodyspec

import (
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/wireform/packages/body"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// ErrInvalidDocument is matched by every validation failure.
var ErrInvalidDocument = errors.New("bodyspec: invalid document")

// Document is a parsed body descriptor.
type Document struct {
	Kind        string `yaml:"kind"`
	ContentType string `yaml:"contentType,omitempty"`
	Encoding    string `yaml:"encoding,omitempty"`
	Text        string `yaml:"text,omitempty"`
	Base64      string `yaml:"base64,omitempty"`
	JSON        string `yaml:"json,omitempty"`
	Parts       []Part `yaml:"parts,omitempty"`
}

// Part is one form part. Exactly one of Value, File or Files is set.
type Part struct {
	Name  string  `yaml:"name"`
	Value *string `yaml:"value,omitempty"`
	File  *File   `yaml:"file,omitempty"`
	Files []File  `yaml:"files,omitempty"`
}

// File is one attachment. Exactly one of Text, Base64 or Path is set.
// A Path is streamed unless Binary asks for base64 transfer encoding.
type File struct {
	Filename    string  `yaml:"filename"`
	ContentType string  `yaml:"contentType"`
	Text        *string `yaml:"text,omitempty"`
	Base64      *string `yaml:"base64,omitempty"`
	Path        string  `yaml:"path,omitempty"`
	Binary      bool    `yaml:"binary,omitempty"`
}

// Built is a RequestBody ready for encoding. Close releases any files opened
// for streaming and must be called once the payload has been sent.
type Built struct {
	Body        body.RequestBody
	ContentType string
	closers     []io.Closer
}

// Close closes every file opened by Build.
func (b *Built) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

// ParseFile reads and validates a descriptor file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read body descriptor: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML descriptor.
func Parse(data []byte) (*Document, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if err := validate(generic); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

func validate(generic any) error {
	docJSON, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(docJSON))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(problems, "; "))
}

// Build converts the descriptor into a RequestBody. Relative paths are
// resolved against baseDir.
func (d *Document) Build(baseDir string) (*Built, error) {
	built := &Built{ContentType: d.ContentType}

	switch d.Kind {
	case "empty":
		built.Body = body.Empty{}
	case "text":
		built.Body = body.Text{Value: d.Text, Encoding: d.Encoding}
	case "raw":
		data, err := base64.StdEncoding.DecodeString(d.Base64)
		if err != nil {
			return nil, fmt.Errorf("%w: raw body is not base64: %v", ErrInvalidDocument, err)
		}
		built.Body = body.Raw{Data: data}
	case "json":
		if !gjson.Valid(d.JSON) {
			return nil, fmt.Errorf("%w: json body is not valid JSON", ErrInvalidDocument)
		}
		built.Body = body.Raw{Data: []byte(d.JSON)}
		if built.ContentType == "" {
			built.ContentType = "application/json"
		}
	case "form":
		parts, err := d.buildParts(baseDir, built)
		if err != nil {
			_ = built.Close()
			return nil, err
		}
		built.Body = body.Form{Parts: parts}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidDocument, d.Kind)
	}

	return built, nil
}

func (d *Document) buildParts(baseDir string, built *Built) ([]body.Part, error) {
	parts := make([]body.Part, 0, len(d.Parts))
	for _, p := range d.Parts {
		switch {
		case p.Value != nil:
			parts = append(parts, body.NameValue{Name: p.Name, Value: *p.Value})
		case p.File != nil:
			f, err := buildFile(*p.File, baseDir, built)
			if err != nil {
				return nil, err
			}
			parts = append(parts, body.FormFile{Field: p.Name, File: f})
		case len(p.Files) > 0:
			files := make([]body.File, 0, len(p.Files))
			for _, spec := range p.Files {
				f, err := buildFile(spec, baseDir, built)
				if err != nil {
					return nil, err
				}
				files = append(files, f)
			}
			parts = append(parts, body.MultipartMixed{Field: p.Name, Files: files})
		default:
			return nil, fmt.Errorf("%w: part %q has no value, file or files", ErrInvalidDocument, p.Name)
		}
	}
	return parts, nil
}

func buildFile(spec File, baseDir string, built *Built) (body.File, error) {
	f := body.File{Filename: spec.Filename, ContentType: spec.ContentType}

	switch {
	case spec.Text != nil:
		f.Content = body.Plain{Text: *spec.Text}
	case spec.Base64 != nil:
		data, err := base64.StdEncoding.DecodeString(*spec.Base64)
		if err != nil {
			return body.File{}, fmt.Errorf("%w: file %q is not base64: %v", ErrInvalidDocument, spec.Filename, err)
		}
		f.Content = body.Binary{Data: data}
	default:
		path, err := resolvePath(spec.Path, baseDir)
		if err != nil {
			return body.File{}, err
		}
		if spec.Binary {
			data, err := os.ReadFile(path)
			if err != nil {
				return body.File{}, err
			}
			f.Content = body.Binary{Data: data}
			break
		}
		file, err := os.Open(path)
		if err != nil {
			return body.File{}, err
		}
		built.closers = append(built.closers, file)
		f.Content = body.Stream{Reader: file}
	}

	return f, nil
}

func resolvePath(path, baseDir string) (string, error) {
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	if err := validatePathWithinBase(path, baseDir); err != nil {
		return "", err
	}
	return path, nil
}

// validatePathWithinBase checks that the resolved path stays within the base directory
// to prevent path traversal attacks
func validatePathWithinBase(path, baseDir string) error {
	if baseDir == "" {
		return nil
	}

	// Clean and resolve both paths
	cleanBase, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %v", err)
	}

	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %v", err)
	}

	// Ensure the path starts with the base directory
	if !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) && cleanPath != cleanBase {
		return fmt.Errorf("path traversal detected: %s is outside allowed directory %s", path, baseDir)
	}

	return nil
}

// Schema returns the JSON schema descriptors are validated against.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}
