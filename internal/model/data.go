package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	dataKeyLabel        = "label"
	dataKeyContent      = "content"
	dataKeyParentID     = "parentId"
	dataKeySectionLabel = "sectionLabel"
)

func isKnownDataKey(k string) bool {
	switch k {
	case dataKeyLabel, dataKeyContent, dataKeyParentID, dataKeySectionLabel:
		return true
	}
	return false
}

// DataPatch is a partial NodeData update. A nil field means "key absent".
// An Attrs entry whose value is nil removes that attribute.
type DataPatch struct {
	Label        *string
	Content      *string
	ParentID     *string
	SectionLabel *string
	Attrs        map[string]any
}

// ContentPatch is the patch an editor sends when only the content changed.
func ContentPatch(content string) DataPatch {
	return DataPatch{Content: &content}
}

func StringPtr(s string) *string { return &s }

func (p DataPatch) IsEmpty() bool {
	return p.Label == nil && p.Content == nil && p.ParentID == nil && p.SectionLabel == nil && len(p.Attrs) == 0
}

// MergeNodeData applies p over dst and returns the result. It is a shallow merge:
// present keys overwrite, absent keys are kept, and nothing is merged recursively.
// dst is not modified.
func MergeNodeData(dst NodeData, p DataPatch) NodeData {
	out := dst.Clone()
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.ParentID != nil {
		out.ParentID = *p.ParentID
	}
	if p.SectionLabel != nil {
		out.SectionLabel = *p.SectionLabel
	}
	for k, v := range p.Attrs {
		if isKnownDataKey(k) {
			continue
		}
		if v == nil {
			delete(out.Attrs, k)
			continue
		}
		if out.Attrs == nil {
			out.Attrs = map[string]any{}
		}
		out.Attrs[k] = cloneValue(v)
	}
	if len(out.Attrs) == 0 {
		out.Attrs = nil
	}
	return out
}

func (d NodeData) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Attrs)+4)
	for k, v := range d.Attrs {
		if isKnownDataKey(k) {
			continue
		}
		m[k] = v
	}
	m[dataKeyLabel] = d.Label
	if d.Content != "" {
		m[dataKeyContent] = d.Content
	}
	if d.ParentID != "" {
		m[dataKeyParentID] = d.ParentID
	}
	if d.SectionLabel != "" {
		m[dataKeySectionLabel] = d.SectionLabel
	}
	return json.Marshal(m)
}

func (d *NodeData) UnmarshalJSON(b []byte) error {
	var p DataPatch
	if err := p.UnmarshalJSON(b); err != nil {
		return err
	}
	*d = MergeNodeData(NodeData{}, p)
	return nil
}

func (p *DataPatch) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = DataPatch{}
	for k, v := range raw {
		switch k {
		case dataKeyLabel:
			p.Label = new(string)
			if err := unmarshalNullableString(v, p.Label); err != nil {
				return fmt.Errorf("data.%s: %w", k, err)
			}
		case dataKeyContent:
			p.Content = new(string)
			if err := unmarshalNullableString(v, p.Content); err != nil {
				return fmt.Errorf("data.%s: %w", k, err)
			}
		case dataKeyParentID:
			p.ParentID = new(string)
			if err := unmarshalNullableString(v, p.ParentID); err != nil {
				return fmt.Errorf("data.%s: %w", k, err)
			}
		case dataKeySectionLabel:
			p.SectionLabel = new(string)
			if err := unmarshalNullableString(v, p.SectionLabel); err != nil {
				return fmt.Errorf("data.%s: %w", k, err)
			}
		default:
			var x any
			if err := json.Unmarshal(v, &x); err != nil {
				return fmt.Errorf("data.%s: %w", k, err)
			}
			if p.Attrs == nil {
				p.Attrs = map[string]any{}
			}
			p.Attrs[k] = x
		}
	}
	return nil
}

// unmarshalNullableString treats JSON null as the empty string.
func unmarshalNullableString(b json.RawMessage, dst *string) error {
	if isNullOrEmpty(b) {
		*dst = ""
		return nil
	}
	return json.Unmarshal(b, dst)
}

func isNullOrEmpty(b []byte) bool {
	s := strings.TrimSpace(string(b))
	return s == "" || s == "null"
}

func cloneAttrs(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneAttrs(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
