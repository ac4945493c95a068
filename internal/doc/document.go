// Package doc reads and writes the network map document format: a single
// JSON object carrying nodes, connections, sticky notes, groups, the VLAN
// schema, and custom commands. The loader tolerates legacy variants and
// backfills missing fields; see Load.
package doc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"nodesailor/internal/scene"
)

// vlanPrefix marks flattened VLAN address fields on node objects.
const vlanPrefix = "VLAN_"

// Document is the on-disk JSON structure of a map file.
type Document struct {
	Nodes             []NodeRecord             `json:"nodes"`
	Connections       []ConnectionRecord       `json:"connections,omitempty"`
	VLANLabels        map[string]string        `json:"vlan_labels,omitempty"`
	VLANLabelOrder    []string                 `json:"vlan_label_order,omitempty"`
	StickyNotes       []NoteRecord             `json:"stickynotes,omitempty"`
	Groups            []GroupRecord            `json:"groups,omitempty"`
	GroupColorPresets []scene.ColorPreset      `json:"group_color_presets,omitempty"`
	GroupWindowHeight int                      `json:"group_window_height,omitempty"`
	NodeWindowHeight  int                      `json:"node_window_height,omitempty"`
	CustomCommands    map[string]CommandRecord `json:"custom_commands,omitempty"`
}

// NodeRecord is one node object. VLAN addresses are flattened into top-level
// "VLAN_<key>" fields beside the coordinates, so the JSON boundary owns the
// flatten/unflatten step and the in-memory model keeps a plain map.
type NodeRecord struct {
	Name                 string            `json:"name" validate:"required"`
	X                    float64           `json:"x"`
	Y                    float64           `json:"y"`
	VLANs                map[string]string `json:"-"`
	RemoteDesktopAddress string            `json:"remote_desktop_address,omitempty"`
	FilePath             string            `json:"file_path,omitempty"`
	WebConfigURL         string            `json:"web_config_url,omitempty"`
}

// MarshalJSON flattens the VLAN map into VLAN_* fields. Key order is stable
// because encoding/json sorts map keys.
func (r NodeRecord) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{}, len(r.VLANs)+6)
	obj["name"] = r.Name
	obj["x"] = r.X
	obj["y"] = r.Y
	if r.RemoteDesktopAddress != "" {
		obj["remote_desktop_address"] = r.RemoteDesktopAddress
	}
	if r.FilePath != "" {
		obj["file_path"] = r.FilePath
	}
	if r.WebConfigURL != "" {
		obj["web_config_url"] = r.WebConfigURL
	}
	for key, addr := range r.VLANs {
		obj[key] = addr
	}
	return json.Marshal(obj)
}

// UnmarshalJSON collects every VLAN_* field into the VLAN map and strips it
// from the record's other fields.
func (r *NodeRecord) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	str := func(key string) string {
		raw, ok := obj[key]
		if !ok {
			return ""
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	num := func(key string) float64 {
		raw, ok := obj[key]
		if !ok {
			return 0
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0
		}
		return f
	}

	r.Name = str("name")
	r.X = num("x")
	r.Y = num("y")
	r.RemoteDesktopAddress = str("remote_desktop_address")
	r.FilePath = str("file_path")
	r.WebConfigURL = str("web_config_url")

	r.VLANs = make(map[string]string)
	for key := range obj {
		if strings.HasPrefix(key, vlanPrefix) {
			r.VLANs[key] = str(key)
		}
	}
	return nil
}

// ConnectionRecord is one edge object. Endpoints reference the node array by
// index; the stored order is display-only.
type ConnectionRecord struct {
	From      int          `json:"from"`
	To        int          `json:"to"`
	Label     string       `json:"label"`
	Info      string       `json:"connectioninfo,omitempty"`
	Waypoints [][2]float64 `json:"waypoints,omitempty"`
	LabelPos  *float64     `json:"label_pos,omitempty"`
}

// NoteRecord is one sticky note object.
type NoteRecord struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// GroupRecord is one group object. Coordinates are normalized on load.
// Color is a legacy single-color field older writers produced; it is kept
// for round-trip compatibility but the preset fields win.
type GroupRecord struct {
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	Name        string  `json:"name"`
	Color       string  `json:"color,omitempty"`
	LightBG     string  `json:"light_bg,omitempty"`
	LightBorder string  `json:"light_border,omitempty"`
	DarkBG      string  `json:"dark_bg,omitempty"`
	DarkBorder  string  `json:"dark_border,omitempty"`
	PresetID    string  `json:"color_preset_id,omitempty"`
}

// CommandRecord is one custom command. The legacy form is a bare template
// string; the current form is an object with an optional applicability list
// (nil means every node).
type CommandRecord struct {
	Template        string   `json:"template"`
	ApplicableNodes []string `json:"applicable_nodes"`
}

// UnmarshalJSON accepts both the legacy string form and the object form.
func (r *CommandRecord) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var tmpl string
		if err := json.Unmarshal(data, &tmpl); err != nil {
			return err
		}
		r.Template = tmpl
		r.ApplicableNodes = nil
		return nil
	}
	type record CommandRecord
	var out record
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*r = CommandRecord(out)
	return nil
}

// sortVLANKeys orders VLAN keys numerically by their suffix where possible,
// falling back to lexical order. Legacy documents without vlan_label_order
// get their order synthesized this way.
func sortVLANKeys(keys []string) {
	rank := func(key string) (int, bool) {
		n, err := strconv.Atoi(strings.TrimPrefix(key, vlanPrefix))
		return n, err == nil
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0; j-- {
			a, aok := rank(keys[j-1])
			b, bok := rank(keys[j])
			swap := false
			switch {
			case aok && bok:
				swap = b < a
			case aok != bok:
				swap = bok
			default:
				swap = keys[j] < keys[j-1]
			}
			if !swap {
				break
			}
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}

func clampLabelPos(pos float64) (float64, error) {
	if pos < 0 || pos > 1 {
		return 0.5, fmt.Errorf("label_pos %v outside [0,1]", pos)
	}
	return pos, nil
}
