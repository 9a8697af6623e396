package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/wireform/packages/body"
	"github.com/abdul-hamid-achik/wireform/packages/bodyspec"
	"github.com/abdul-hamid-achik/wireform/packages/boundary"
	"github.com/abdul-hamid-achik/wireform/packages/mediatype"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <descriptor.yaml>",
	Short: "Encode a body descriptor and write the wire payload",
	Long: `Encode a YAML body descriptor into the exact bytes that would be sent.
The payload goes to stdout (or --out) and the Content-Type to stderr.

Examples:
  wireform encode upload.yaml
  wireform encode upload.yaml --seed 42 --out upload.bin
  wireform encode form.yaml --charset iso-8859-1 --field-content-type`,
	Args: cobra.ExactArgs(1),
	RunE: encodeCommand,
}

var (
	seedFlag             int64
	outFlag              string
	charsetFlag          string
	fieldContentTypeFlag bool
)

func init() {
	encodeCmd.Flags().Int64Var(&seedFlag, "seed", 0, "Seed boundary generation for reproducible output (env: WIREFORM_SEED)")
	encodeCmd.Flags().StringVarP(&outFlag, "out", "o", "", "Write the payload to a file instead of stdout")
	encodeCmd.Flags().StringVar(&charsetFlag, "charset", "", "Default encoding for text bodies and tagged fields")
	encodeCmd.Flags().BoolVar(&fieldContentTypeFlag, "field-content-type", false, "Give multipart text fields a Content-Type with charset")
}

// encodeSettings are the knobs shared by encode and send.
type encodeSettings struct {
	charset          string
	fieldContentType bool
	seed             int64
	seeded           bool
}

func (s encodeSettings) options() []body.Option {
	opts := []body.Option{body.WithFieldContentType(s.fieldContentType)}
	if s.seeded {
		opts = append(opts, body.WithBoundaryGenerator(boundary.NewSeeded(s.seed)))
	}
	return opts
}

func currentEncodeSettings(cmd *cobra.Command) encodeSettings {
	s := encodeSettings{
		charset:          cfg.Charset,
		fieldContentType: cfg.GetFieldContentType() || fieldContentTypeFlag,
	}
	if cfg.Seed != nil {
		s.seed, s.seeded = *cfg.Seed, true
	}
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		s.seed, s.seeded = seedFlag, true
	}
	if charsetFlag != "" {
		s.charset = charsetFlag
	}
	return s
}

func encodeCommand(cmd *cobra.Command, args []string) error {
	built, err := loadDescriptor(args[0])
	if err != nil {
		return err
	}
	defer built.Close()

	out := cmd.OutOrStdout()
	if outFlag != "" {
		f, err := os.Create(outFlag)
		if err != nil {
			return withExitCode(ExitUsageError, err)
		}
		defer f.Close()
		out = f
	}

	contentType, n, err := writeEncoded(out, built, currentEncodeSettings(cmd))
	if err != nil {
		return err
	}
	if contentType != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Content-Type: %s\n", contentType)
	}
	logger.Debug("payload written", "bytes", n, "content_type", contentType)
	return nil
}

func loadDescriptor(path string) (*bodyspec.Built, error) {
	doc, err := bodyspec.ParseFile(path)
	if err != nil {
		return nil, withExitCode(ExitDescriptorError, err)
	}
	built, err := doc.Build(filepath.Dir(path))
	if err != nil {
		return nil, withExitCode(ExitDescriptorError, err)
	}
	return built, nil
}

// writeEncoded encodes built and streams the payload to w. It returns the
// Content-Type that belongs with the payload, if one is known.
func writeEncoded(w io.Writer, built *bodyspec.Built, s encodeSettings) (string, int64, error) {
	override, payload, err := body.Encode(built.Body, s.charset, s.options()...)
	if err != nil {
		return "", 0, withExitCode(ExitEncodingError, err)
	}

	n, err := payload.WriteTo(w)
	if err != nil {
		return "", n, withExitCode(ExitEncodingError, err)
	}

	return descriptorContentType(built, override, s.charset), n, nil
}

func descriptorContentType(built *bodyspec.Built, override *mediatype.ContentType, charset string) string {
	if override != nil {
		return override.String()
	}
	if built.ContentType != "" {
		return built.ContentType
	}
	if t, ok := built.Body.(body.Text); ok {
		label := t.Encoding
		if label == "" {
			label = charset
		}
		if label == "" {
			label = body.DefaultEncoding
		}
		return mediatype.New("text", "plain").WithCharset(label).String()
	}
	return ""
}
