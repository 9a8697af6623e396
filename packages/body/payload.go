package body

import (
	"bytes"
	"io"
)

// Payload is an encoded body. Payloads built only from in-memory content can
// be written any number of times; a payload that embeds a Stream can be
// written or read once.
type Payload struct {
	segments []segment
	length   int64
	consumed bool
}

// segment is either a run of encoded bytes or a stream copied verbatim.
type segment struct {
	data   []byte
	stream *streamSource
}

type streamSource struct {
	field    string
	filename string
	r        io.Reader
}

// Read wraps errors from the underlying reader so that callers can tell a
// failed source apart from a failed destination.
func (s *streamSource) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		return n, &StreamReadError{Field: s.field, Filename: s.filename, Err: err}
	}
	return n, err
}

func bytesPayload(b []byte) *Payload {
	p := &Payload{length: int64(len(b))}
	if len(b) > 0 {
		p.segments = []segment{{data: b}}
	}
	return p
}

// Len returns the payload size in bytes, or -1 when a stream makes it unknown.
func (p *Payload) Len() int64 {
	return p.length
}

// Streaming reports whether the payload embeds a Stream and is single-use.
func (p *Payload) Streaming() bool {
	return p.length < 0
}

// WriteTo writes the payload to w. Stream contents are copied without being
// buffered in full. On error the bytes already written must be discarded.
func (p *Payload) WriteTo(w io.Writer) (int64, error) {
	if err := p.acquire(); err != nil {
		return 0, err
	}

	var total int64
	for _, seg := range p.segments {
		if seg.stream == nil {
			n, err := w.Write(seg.data)
			total += int64(n)
			if err != nil {
				return total, err
			}
			continue
		}

		n, err := io.Copy(w, seg.stream)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Reader returns the payload as a reader suitable for an HTTP request body.
// No goroutines are involved; streams are read as the returned reader is.
func (p *Payload) Reader() io.Reader {
	if err := p.acquire(); err != nil {
		return &errorReader{err: err}
	}

	readers := make([]io.Reader, 0, len(p.segments))
	for _, seg := range p.segments {
		if seg.stream != nil {
			readers = append(readers, seg.stream)
		} else {
			readers = append(readers, bytes.NewReader(seg.data))
		}
	}
	return io.MultiReader(readers...)
}

// Bytes writes the whole payload into memory.
func (p *Payload) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if p.length > 0 {
		buf.Grow(int(p.length))
	}
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Payload) acquire() error {
	if !p.Streaming() {
		return nil
	}
	if p.consumed {
		return ErrPayloadConsumed
	}
	p.consumed = true
	return nil
}

type errorReader struct {
	err error
}

func (r *errorReader) Read([]byte) (int, error) {
	return 0, r.err
}

// payloadBuilder accumulates encoded bytes and splices in streams.
type payloadBuilder struct {
	buf      bytes.Buffer
	segments []segment
	streams  bool
}

func (b *payloadBuilder) WriteString(s string) {
	b.buf.WriteString(s)
}

func (b *payloadBuilder) Write(p []byte) {
	b.buf.Write(p)
}

func (b *payloadBuilder) stream(field, filename string, r io.Reader) {
	b.flush()
	b.segments = append(b.segments, segment{stream: &streamSource{field: field, filename: filename, r: r}})
	b.streams = true
}

func (b *payloadBuilder) flush() {
	if b.buf.Len() == 0 {
		return
	}
	data := make([]byte, b.buf.Len())
	copy(data, b.buf.Bytes())
	b.segments = append(b.segments, segment{data: data})
	b.buf.Reset()
}

func (b *payloadBuilder) payload() *Payload {
	b.flush()
	p := &Payload{segments: b.segments, length: -1}
	if !b.streams {
		p.length = 0
		for _, seg := range b.segments {
			p.length += int64(len(seg.data))
		}
	}
	return p
}
