package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/wireform/packages/sse"
	"github.com/fatih/color"
	"github.com/tidwall/gjson"
)

// eventPrinter renders interpreted events for the terminal or as JSON lines.
type eventPrinter struct {
	w        io.Writer
	path     string
	jsonMode bool
}

func (p *eventPrinter) print(event sse.Event) error {
	data := event.Data
	if p.path != "" {
		if !gjson.Valid(data) {
			logger.Debug("event data is not JSON, skipping path", "event", event.Type)
			return nil
		}
		result := gjson.Get(data, p.path)
		if !result.Exists() {
			return nil
		}
		data = result.String()
	}

	if p.jsonMode {
		out := event
		out.Data = data
		line, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.w, string(line))
		return err
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	header := cyan(event.Type)
	if event.LastEventID != "" {
		header += " " + dim("id="+event.LastEventID)
	}
	_, err := fmt.Fprintf(p.w, "%s\n%s\n\n", header, data)
	return err
}
