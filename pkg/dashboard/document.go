package dashboard

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/zwdscn-cloud/JFreports/pkg/errors"
)

// Document format constants.
const (
	FormatVersion = "1.0"
	DefaultTheme  = "DA001"

	// TimestampLayout is ISO-8601 with millisecond precision in UTC.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// CanvasSettings is the persisted canvas size and background.
type CanvasSettings struct {
	Width           float64 `json:"width" bson:"width" yaml:"width"`
	Height          float64 `json:"height" bson:"height" yaml:"height"`
	BackgroundColor string  `json:"backgroundColor" bson:"backgroundColor" yaml:"backgroundColor"`
}

// Document is a saved dashboard.
type Document struct {
	Version        string          `json:"version" bson:"version" yaml:"version"`
	Timestamp      string          `json:"timestamp" bson:"timestamp" yaml:"timestamp"`
	ActiveTheme    string          `json:"activeTheme,omitempty" bson:"activeTheme,omitempty" yaml:"activeTheme,omitempty"`
	CanvasSettings *CanvasSettings `json:"canvasSettings,omitempty" bson:"canvasSettings,omitempty" yaml:"canvasSettings,omitempty"`
	Elements       []Element       `json:"elements" bson:"elements" yaml:"elements"`
}

// State is the session state a document is saved from and loaded into.
type State struct {
	Theme    string
	Canvas   CanvasSettings
	Elements []Element
}

// NewDocument snapshots state into a document stamped with now.
func NewDocument(state State, now time.Time) Document {
	canvas := state.Canvas
	theme := state.Theme
	if theme == "" {
		theme = DefaultTheme
	}
	elements := CloneAll(state.Elements)
	if elements == nil {
		elements = []Element{}
	}
	return Document{
		Version:        FormatVersion,
		Timestamp:      now.UTC().Format(TimestampLayout),
		ActiveTheme:    theme,
		CanvasSettings: &canvas,
		Elements:       elements,
	}
}

// Apply returns the state that results from loading d on top of cur.
// A missing activeTheme or canvasSettings keeps the current value.
func (d Document) Apply(cur State) State {
	next := State{
		Theme:    cur.Theme,
		Canvas:   cur.Canvas,
		Elements: CloneAll(d.Elements),
	}
	if next.Elements == nil {
		next.Elements = []Element{}
	}
	if d.ActiveTheme != "" {
		next.Theme = d.ActiveTheme
	}
	if d.CanvasSettings != nil {
		next.Canvas = *d.CanvasSettings
	}
	return next
}

func invalidFormat(cause error) error {
	return errors.Wrap(errors.ErrCodeInvalidFormat, cause, "invalid dashboard file format")
}

// Decode reads a JSON document. The input must be an object whose
// "elements" field is an array; anything else fails with INVALID_FORMAT.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read dashboard file")
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Document{}, invalidFormat(err)
	}
	raw, ok := probe["elements"]
	if !ok {
		return Document{}, invalidFormat(nil)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return Document{}, invalidFormat(nil)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, invalidFormat(err)
	}
	if doc.Elements == nil {
		doc.Elements = []Element{}
	}
	return doc, nil
}

// Encode writes d as indented JSON.
func Encode(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// EncodeBytes returns d as indented JSON.
func EncodeBytes(d Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
