package curl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/wireform/packages/bodyspec"
)

func TestParse_SimpleGet(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl https://api.example.com/users`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "GET" {
		t.Errorf("expected method GET, got %s", parsed.Method)
	}
	if parsed.URL != "https://api.example.com/users" {
		t.Errorf("expected URL https://api.example.com/users, got %s", parsed.URL)
	}
}

func TestParse_ImplicitPost(t *testing.T) {
	converter := NewConverter()

	for _, cmd := range []string{
		`curl -d "name=John" https://api.example.com/users`,
		`curl -F "name=John" https://api.example.com/users`,
		`curl --data-urlencode "q=a b" https://api.example.com/search`,
	} {
		parsed, err := converter.Parse(cmd)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", cmd, err)
		}
		if parsed.Method != "POST" {
			t.Errorf("%s: expected implicit POST method, got %s", cmd, parsed.Method)
		}
	}
}

func TestParse_ExplicitMethodWins(t *testing.T) {
	parsed, err := NewConverter().Parse(`curl -d a=b -X put https://api.example.com/items/1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Method != "PUT" {
		t.Errorf("expected PUT, got %s", parsed.Method)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"no url":         `curl -X POST`,
		"bare curl":      `curl`,
		"missing value":  `curl https://api.example.com -H`,
		"mixed form":     `curl -F a=b -d c=d https://api.example.com`,
		"data from file": `curl -d @body.json https://api.example.com`,
	}

	for name, cmd := range tests {
		if _, err := NewConverter().Parse(cmd); err == nil {
			t.Errorf("%s: expected error for %q", name, cmd)
		}
	}
}

func TestParse_Flags(t *testing.T) {
	parsed, err := NewConverter().Parse(`curl -s -k -L https://api.example.com`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !parsed.Insecure {
		t.Error("expected Insecure to be true")
	}
	if !parsed.FollowRedirects {
		t.Error("expected FollowRedirects to be true")
	}
	if parsed.URL != "https://api.example.com" {
		t.Errorf("unexpected URL %q", parsed.URL)
	}
}

func TestConvertCommand_Multipart(t *testing.T) {
	conv, err := NewConverter().ConvertCommand(`curl https://api.example.com/upload ` +
		`-H "Content-Type: multipart/form-data" ` +
		`-F title=Report ` +
		`-F "doc=@./report.pdf;type=application/pdf" ` +
		`-F "img=@a.png;type=image/png" -F "img=@b.png;type=image/png;filename=cover.png" ` +
		`--form-string "note=@not-a-file"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := conv.Document
	if doc.Kind != "form" {
		t.Fatalf("expected form kind, got %s", doc.Kind)
	}
	if len(doc.Parts) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(doc.Parts))
	}

	if doc.Parts[0].Value == nil || *doc.Parts[0].Value != "Report" {
		t.Errorf("expected title value, got %+v", doc.Parts[0])
	}

	file := doc.Parts[1].File
	if file == nil || file.Path != "./report.pdf" || file.Filename != "report.pdf" || file.ContentType != "application/pdf" {
		t.Errorf("unexpected file part: %+v", file)
	}

	images := doc.Parts[2]
	if images.File != nil || len(images.Files) != 2 {
		t.Fatalf("expected repeated file field to become a mixed part, got %+v", images)
	}
	if images.Files[1].Filename != "cover.png" {
		t.Errorf("expected filename override, got %s", images.Files[1].Filename)
	}

	if doc.Parts[3].Value == nil || *doc.Parts[3].Value != "@not-a-file" {
		t.Errorf("expected literal form string, got %+v", doc.Parts[3])
	}

	if _, ok := conv.Headers["Content-Type"]; ok {
		t.Error("expected multipart Content-Type header to be dropped")
	}
}

func TestConvertCommand_Data(t *testing.T) {
	tests := []struct {
		name     string
		cmd      string
		kind     string
		wantText string
	}{
		{
			name: "canonical pairs become a form",
			cmd:  `curl -d "name=John" -d "age=30" https://api.example.com/users`,
			kind: "form",
		},
		{
			name:     "json header gives json kind",
			cmd:      `curl -H "Content-Type: application/json" -d '{"name":"John"}' https://api.example.com/users`,
			kind:     "json",
			wantText: `{"name":"John"}`,
		},
		{
			name:     "non canonical data keeps bytes",
			cmd:      `curl -d '{"name":"John"}' https://api.example.com/users`,
			kind:     "text",
			wantText: `{"name":"John"}`,
		},
		{
			name:     "other content type",
			cmd:      `curl -H "Content-Type: text/csv" -d 'a,b' https://api.example.com/import`,
			kind:     "text",
			wantText: "a,b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := NewConverter().ConvertCommand(tt.cmd)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			doc := conv.Document
			if doc.Kind != tt.kind {
				t.Fatalf("expected kind %s, got %s", tt.kind, doc.Kind)
			}
			got := doc.Text
			if doc.Kind == "json" {
				got = doc.JSON
			}
			if tt.wantText != "" && got != tt.wantText {
				t.Errorf("expected %q, got %q", tt.wantText, got)
			}
		})
	}
}

func TestConvertCommand_URLEncodedValues(t *testing.T) {
	conv, err := NewConverter().ConvertCommand(`curl -d "a=1" --data-urlencode "q=x y&z" https://api.example.com/search`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := conv.Document.Parts
	if len(parts) != 2 || *parts[1].Value != "x y&z" {
		t.Errorf("unexpected parts: %+v", parts)
	}
}

func TestYAML_ParsesBack(t *testing.T) {
	converter := NewConverter()
	conv, err := converter.ConvertCommand(`curl -H "X-Trace: 1" -F "title=Hi" -F "doc=@r.txt;type=text/plain" https://api.example.com/upload`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := converter.YAML(conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "# POST https://api.example.com/upload\n# X-Trace: 1\n") {
		t.Errorf("expected request line comments, got:\n%s", text)
	}

	doc, err := bodyspec.Parse(out)
	if err != nil {
		t.Fatalf("generated YAML does not validate: %v\n%s", err, text)
	}
	if len(doc.Parts) != 2 || doc.Parts[1].File.Path != "r.txt" {
		t.Errorf("unexpected round trip: %+v", doc.Parts)
	}
}

func TestYAML_WithoutRequestLine(t *testing.T) {
	converter := NewConverter(WithRequestLine(false))
	conv, err := converter.ConvertCommand(`curl https://api.example.com`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := converter.YAML(conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "kind: empty\n" {
		t.Errorf("unexpected YAML %q", out)
	}
}

func TestConvertFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.sh")
	content := "# uploads\ncurl -F a=b \\\n  https://api.example.com/one\n\ncurl https://api.example.com/two\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	convs, err := NewConverter().ConvertFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversions, got %d", len(convs))
	}
	if convs[0].Name != "post_one" || convs[1].Name != "get_two" {
		t.Errorf("unexpected names %q, %q", convs[0].Name, convs[1].Name)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{
			input:    `-X POST -d "hello world"`,
			expected: []string{"-X", "POST", "-d", "hello world"},
		},
		{
			input:    `-H 'Content-Type: application/json'`,
			expected: []string{"-H", "Content-Type: application/json"},
		},
		{
			input:    `-d 'a\b'`,
			expected: []string{"-d", `a\b`},
		},
		{
			input:    `-F name=a\ b`,
			expected: []string{"-F", "name=a b"},
		},
	}

	for _, tt := range tests {
		tokens := tokenize(tt.input)
		if len(tokens) != len(tt.expected) {
			t.Errorf("tokenize(%q): got %d tokens, expected %d", tt.input, len(tokens), len(tt.expected))
			continue
		}
		for i, tok := range tokens {
			if tok != tt.expected[i] {
				t.Errorf("tokenize(%q)[%d]: got %q, expected %q", tt.input, i, tok, tt.expected[i])
			}
		}
	}
}

func TestGenerateName(t *testing.T) {
	tests := []struct {
		url    string
		method string
		expect string
	}{
		{"https://api.example.com/users", "GET", "get_users"},
		{"https://api.example.com/users/123", "GET", "get_users_123"},
		{"https://api.example.com/", "POST", "post_root"},
		{"https://api.example.com/api/v1/user-files", "PUT", "put_api_v1_user_files"},
	}

	for _, tt := range tests {
		result := generateName(tt.url, tt.method)
		if result != tt.expect {
			t.Errorf("generateName(%q, %q): got %q, expected %q", tt.url, tt.method, result, tt.expect)
		}
	}
}
