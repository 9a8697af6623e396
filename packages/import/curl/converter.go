// Package curl converts curl command lines into wireform body descriptors.
package curl

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/wireform/packages/body"
	"github.com/abdul-hamid-achik/wireform/packages/bodyspec"
	"github.com/abdul-hamid-achik/wireform/packages/mediatype"
	"gopkg.in/yaml.v3"
)

// Converter converts curl commands to body descriptors.
type Converter struct {
	includeRequestLine bool
}

// Option is a functional option for Converter.
type Option func(*Converter)

// WithRequestLine configures whether the YAML output starts with comments
// naming the method, URL and headers of the original command.
func WithRequestLine(include bool) Option {
	return func(c *Converter) {
		c.includeRequestLine = include
	}
}

// NewConverter creates a new curl converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		includeRequestLine: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParsedCurl represents a parsed curl command.
type ParsedCurl struct {
	Method          string
	URL             string
	Headers         map[string]string
	Data            []string // -d values, in order
	URLEncoded      []string // --data-urlencode values, in order
	Form            []formArg
	Insecure        bool
	FollowRedirects bool
	Name            string
}

// formArg is one -F or --form-string argument.
type formArg struct {
	spec    string
	literal bool
}

// Conversion is the result of converting one curl command.
type Conversion struct {
	Name     string
	Method   string
	URL      string
	Headers  map[string]string
	Document *bodyspec.Document
}

// ConvertCommand converts a single curl command.
func (c *Converter) ConvertCommand(curlCmd string) (*Conversion, error) {
	parsed, err := c.Parse(curlCmd)
	if err != nil {
		return nil, err
	}
	return c.ToDescriptor(parsed)
}

// ConvertFile converts a file containing curl commands, one per line with
// backslash continuations.
func (c *Converter) ConvertFile(path string) ([]*Conversion, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var commands []string
	var currentCmd strings.Builder
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, "\\") {
			currentCmd.WriteString(strings.TrimSuffix(line, "\\"))
			currentCmd.WriteString(" ")
			continue
		}

		currentCmd.WriteString(line)
		commands = append(commands, currentCmd.String())
		currentCmd.Reset()
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if currentCmd.Len() > 0 {
		commands = append(commands, currentCmd.String())
	}

	conversions := make([]*Conversion, 0, len(commands))
	for i, cmd := range commands {
		conv, err := c.ConvertCommand(cmd)
		if err != nil {
			return nil, fmt.Errorf("failed to convert command %d: %w", i+1, err)
		}
		conversions = append(conversions, conv)
	}

	return conversions, nil
}

// Parse parses a curl command string into a ParsedCurl struct.
func (c *Converter) Parse(curlCmd string) (*ParsedCurl, error) {
	parsed := &ParsedCurl{
		Headers: make(map[string]string),
	}
	explicitMethod := ""

	curlCmd = strings.TrimSpace(curlCmd)
	if strings.HasPrefix(curlCmd, "curl ") {
		curlCmd = strings.TrimPrefix(curlCmd, "curl ")
	} else if curlCmd == "curl" {
		return nil, fmt.Errorf("no URL specified")
	}

	tokens := tokenize(curlCmd)

	i := 0
	for i < len(tokens) {
		token := tokens[i]

		value := func() (string, error) {
			if i+1 >= len(tokens) {
				return "", fmt.Errorf("missing value for %s", token)
			}
			i += 2
			return tokens[i-1], nil
		}

		switch token {
		case "-X", "--request":
			v, err := value()
			if err != nil {
				return nil, err
			}
			explicitMethod = strings.ToUpper(v)

		case "-H", "--header":
			v, err := value()
			if err != nil {
				return nil, err
			}
			if key, val, ok := strings.Cut(v, ":"); ok {
				parsed.Headers[strings.TrimSpace(key)] = strings.TrimSpace(val)
			}

		case "-d", "--data", "--data-raw", "--data-binary", "--data-ascii":
			v, err := value()
			if err != nil {
				return nil, err
			}
			if strings.HasPrefix(v, "@") && token != "--data-raw" {
				return nil, fmt.Errorf("%s with a file reference is not supported: %s", token, v)
			}
			parsed.Data = append(parsed.Data, v)

		case "--data-urlencode":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.URLEncoded = append(parsed.URLEncoded, v)

		case "-F", "--form":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Form = append(parsed.Form, formArg{spec: v})

		case "--form-string":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Form = append(parsed.Form, formArg{spec: v, literal: true})

		case "-A", "--user-agent":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Headers["User-Agent"] = v

		case "-e", "--referer":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Headers["Referer"] = v

		case "-b", "--cookie":
			v, err := value()
			if err != nil {
				return nil, err
			}
			parsed.Headers["Cookie"] = v

		case "-k", "--insecure":
			parsed.Insecure = true
			i++

		case "-L", "--location":
			parsed.FollowRedirects = true
			i++

		default:
			if strings.HasPrefix(token, "-") {
				// Skip unknown flags with potential values
				if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && !isURL(tokens[i+1]) {
					i += 2
				} else {
					i++
				}
				continue
			}
			if parsed.URL == "" && isURL(token) {
				parsed.URL = token
			}
			i++
		}
	}

	if parsed.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}
	if len(parsed.Form) > 0 && (len(parsed.Data) > 0 || len(parsed.URLEncoded) > 0) {
		return nil, fmt.Errorf("cannot mix -F with -d or --data-urlencode")
	}

	switch {
	case explicitMethod != "":
		parsed.Method = explicitMethod
	case len(parsed.Form) > 0 || len(parsed.Data) > 0 || len(parsed.URLEncoded) > 0:
		parsed.Method = "POST"
	default:
		parsed.Method = "GET"
	}

	parsed.Name = generateName(parsed.URL, parsed.Method)

	return parsed, nil
}

// ToDescriptor builds the body descriptor for a parsed command.
func (c *Converter) ToDescriptor(parsed *ParsedCurl) (*Conversion, error) {
	conv := &Conversion{
		Name:    parsed.Name,
		Method:  parsed.Method,
		URL:     parsed.URL,
		Headers: make(map[string]string, len(parsed.Headers)),
	}
	for k, v := range parsed.Headers {
		conv.Headers[k] = v
	}

	contentType := ""
	for k, v := range parsed.Headers {
		if strings.EqualFold(k, "Content-Type") {
			contentType = v
		}
	}

	switch {
	case len(parsed.Form) > 0:
		parts, err := formParts(parsed.Form)
		if err != nil {
			return nil, err
		}
		conv.Document = &bodyspec.Document{Kind: "form", Parts: parts}
		// The encoder supplies the multipart boundary.
		dropHeader(conv.Headers, "Content-Type")

	case len(parsed.Data) > 0 || len(parsed.URLEncoded) > 0:
		doc, err := dataDocument(parsed, contentType)
		if err != nil {
			return nil, err
		}
		conv.Document = doc
		if doc.Kind == "form" || doc.ContentType != "" {
			dropHeader(conv.Headers, "Content-Type")
		}

	default:
		conv.Document = &bodyspec.Document{Kind: "empty"}
	}

	return conv, nil
}

func dataDocument(parsed *ParsedCurl, contentType string) (*bodyspec.Document, error) {
	data := strings.Join(parsed.Data, "&")

	if strings.Contains(strings.ToLower(contentType), "json") {
		return &bodyspec.Document{Kind: "json", JSON: data, ContentType: contentType}, nil
	}

	isForm := contentType == "" || strings.HasPrefix(strings.ToLower(contentType), "application/x-www-form-urlencoded")
	if isForm {
		extra := make([]body.NameValue, 0, len(parsed.URLEncoded))
		for _, spec := range parsed.URLEncoded {
			name, value, ok := strings.Cut(spec, "=")
			if !ok {
				return nil, fmt.Errorf("--data-urlencode value must be name=content: %q", spec)
			}
			extra = append(extra, body.NameValue{Name: name, Value: value})
		}

		fields, err := body.ParseURLEncoded(data)
		if err != nil || body.EncodeURLValues(fields) != data {
			// Not canonical name=value pairs: keep the bytes curl would send.
			if len(extra) > 0 {
				data += "&" + body.EncodeURLValues(extra)
			}
			return &bodyspec.Document{Kind: "text", Text: data, ContentType: mediatype.FormURLEncoded}, nil
		}

		var parts []bodyspec.Part
		for _, f := range append(fields, extra...) {
			parts = append(parts, valuePart(f.Name, f.Value))
		}
		return &bodyspec.Document{Kind: "form", Parts: parts}, nil
	}

	if len(parsed.URLEncoded) > 0 {
		return nil, fmt.Errorf("--data-urlencode requires a form content type, got %q", contentType)
	}
	return &bodyspec.Document{Kind: "text", Text: data, ContentType: contentType}, nil
}

// formParts maps -F arguments to parts. Repeated field names holding files
// are grouped into a single multipart/mixed part.
func formParts(args []formArg) ([]bodyspec.Part, error) {
	var parts []bodyspec.Part
	fileIndex := make(map[string]int)

	for _, arg := range args {
		name, value, ok := strings.Cut(arg.spec, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("form argument must be name=content: %q", arg.spec)
		}

		if arg.literal || !strings.HasPrefix(value, "@") {
			parts = append(parts, valuePart(name, value))
			continue
		}

		file := fileFromSpec(value[1:])
		idx, seen := fileIndex[name]
		if !seen {
			fileIndex[name] = len(parts)
			parts = append(parts, bodyspec.Part{Name: name, File: &file})
			continue
		}

		existing := &parts[idx]
		if existing.File != nil {
			existing.Files = []bodyspec.File{*existing.File}
			existing.File = nil
		}
		existing.Files = append(existing.Files, file)
	}

	return parts, nil
}

// fileFromSpec parses "path;type=...;filename=..." from an -F argument.
func fileFromSpec(spec string) bodyspec.File {
	segments := strings.Split(spec, ";")
	path := segments[0]
	file := bodyspec.File{
		Path:        path,
		Filename:    baseName(path),
		ContentType: "application/octet-stream",
	}
	for _, seg := range segments[1:] {
		key, val, ok := strings.Cut(strings.TrimSpace(seg), "=")
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "type":
			file.ContentType = val
		case "filename":
			file.Filename = strings.Trim(val, `"`)
		}
	}
	return file
}

// YAML renders the conversion as a descriptor file.
func (c *Converter) YAML(conv *Conversion) ([]byte, error) {
	out, err := yaml.Marshal(conv.Document)
	if err != nil {
		return nil, err
	}
	if !c.includeRequestLine {
		return out, nil
	}

	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(conv.Method)
	sb.WriteString(" ")
	sb.WriteString(conv.URL)
	sb.WriteString("\n")

	keys := make([]string, 0, len(conv.Headers))
	for k := range conv.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString("# ")
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(conv.Headers[k])
		sb.WriteString("\n")
	}
	sb.Write(out)
	return []byte(sb.String()), nil
}

func valuePart(name, value string) bodyspec.Part {
	return bodyspec.Part{Name: name, Value: &value}
}

func dropHeader(headers map[string]string, name string) {
	for k := range headers {
		if strings.EqualFold(k, name) {
			delete(headers, k)
		}
	}
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// tokenize splits a curl command into tokens, respecting quotes.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false

	for _, r := range cmd {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch r {
		case '\\':
			if inSingleQuote {
				current.WriteRune(r)
			} else {
				escaped = true
			}
		case '\'':
			if !inDoubleQuote {
				inSingleQuote = !inSingleQuote
			} else {
				current.WriteRune(r)
			}
		case '"':
			if !inSingleQuote {
				inDoubleQuote = !inDoubleQuote
			} else {
				current.WriteRune(r)
			}
		case ' ', '\t':
			if inSingleQuote || inDoubleQuote {
				current.WriteRune(r)
			} else if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isURL checks if a string looks like a URL.
func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

var (
	urlPathPattern = regexp.MustCompile(`https?://[^/]+(/[^?#]*)?`)
	nonWordPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

// generateName generates a descriptor name from the URL and method.
func generateName(url, method string) string {
	matches := urlPathPattern.FindStringSubmatch(url)

	path := "/"
	if len(matches) > 1 && matches[1] != "" {
		path = matches[1]
	}

	path = strings.Trim(path, "/")
	if path == "" {
		path = "root"
	}

	name := strings.ToLower(method) + "_" + path
	return strings.Trim(nonWordPattern.ReplaceAllString(name, "_"), "_")
}
