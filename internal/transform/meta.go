package transform

import (
	"bytes"
	"encoding/json"
)

// FragmentMeta is the metadata prepended to a rendered fragment.
type FragmentMeta struct {
	TOC      string           `json:"toc,omitempty"`
	Summary  string           `json:"summary,omitempty"`
	Sections []ContentSection `json:"sections,omitempty"`
}

// Meta returns the metadata derived by Pipeline.
func (d *Doc) Meta() FragmentMeta {
	return FragmentMeta{
		TOC:      d.TOC,
		Summary:  d.Summary,
		Sections: d.Sections,
	}
}

// Fragment serializes the document with its metadata prepended as a
// <!--META:...--> comment.
func (d *Doc) Fragment() ([]byte, error) {
	return PrependMeta(d.Meta(), []byte(d.Serialize()))
}

// PrependMeta builds the FragmentMeta JSON and prepends it as a
// <!--META:...--> comment to body.
func PrependMeta(fm FragmentMeta, body []byte) ([]byte, error) {
	metaJSON, err := json.Marshal(fm)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.Grow(len("<!--META:") + len(metaJSON) + len("-->\n") + len(body))
	b.WriteString("<!--META:")
	b.Write(metaJSON)
	b.WriteString("-->\n")
	b.Write(body)
	return b.Bytes(), nil
}
