package sources

import (
	"encoding/json"
	"fmt"
)

// Listener is a callback function that receives events during a conversion.
type Listener func(fmt.Stringer)

func jsonString(v interface{}) string {
	b, _ := json.Marshal(map[string]interface{}{
		fmt.Sprintf("%T", v): v,
	})
	return string(b)
}

// EventEntryConverted is emitted when a line is rendered as a deb822 entry.
type EventEntryConverted struct {
	Line    string `json:"line,omitempty"`
	Type    string `json:"type,omitempty"`
	URI     string `json:"uri,omitempty"`
	Suite   string `json:"suite,omitempty"`
	Options int    `json:"options,omitempty"`
}

func (e EventEntryConverted) String() string { return jsonString(e) }

// EventCommentNormalized is emitted when a comment line is passed through.
type EventCommentNormalized struct {
	Line string `json:"line,omitempty"`
}

func (e EventCommentNormalized) String() string { return jsonString(e) }

// EventLineUnparseable is emitted when a line is replaced by an
// unparseable-line comment.
type EventLineUnparseable struct {
	Line string `json:"line,omitempty"`
}

func (e EventLineUnparseable) String() string { return jsonString(e) }

// EventKeyEmbedded is emitted when a Signed-By path is replaced by the
// armored key it points to.
type EventKeyEmbedded struct {
	Path string `json:"path,omitempty"`
	Size int    `json:"size,omitempty"`
}

func (e EventKeyEmbedded) String() string { return jsonString(e) }

// EventKeyNotEmbedded is emitted when a Signed-By path could not be
// resolved and is kept as is.
type EventKeyNotEmbedded struct {
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

func (e EventKeyNotEmbedded) String() string { return jsonString(e) }
