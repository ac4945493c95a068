package doc

import (
	"encoding/json"
	"fmt"
	"os"

	"nodesailor/internal/scene"
)

// FromScene serializes the scene into a document. Nodes keep their declared
// order; connections keep first-seen order without duplicates.
func FromScene(s *scene.Scene, commands map[string]CommandRecord) *Document {
	d := &Document{
		VLANLabels:        s.VLANLabels,
		VLANLabelOrder:    s.VLANOrder,
		GroupColorPresets: s.Presets,
		GroupWindowHeight: s.GroupWindowHeight,
		NodeWindowHeight:  s.NodeWindowHeight,
		CustomCommands:    commands,
	}

	for _, n := range s.Nodes {
		d.Nodes = append(d.Nodes, NodeRecord{
			Name:                 n.Name,
			X:                    n.Pos.X,
			Y:                    n.Pos.Y,
			VLANs:                n.VLANs,
			RemoteDesktopAddress: n.RemoteDesktopAddress,
			FilePath:             n.FilePath,
			WebConfigURL:         n.WebConfigURL,
		})
	}

	for _, c := range s.Connections {
		from := s.NodeIndex(c.From)
		to := s.NodeIndex(c.To)
		if from < 0 || to < 0 {
			continue
		}
		rec := ConnectionRecord{
			From:  from,
			To:    to,
			Label: c.Label,
			Info:  c.Info,
		}
		for _, wp := range c.Waypoints {
			rec.Waypoints = append(rec.Waypoints, [2]float64{wp.X, wp.Y})
		}
		pos := c.LabelPos
		rec.LabelPos = &pos
		d.Connections = append(d.Connections, rec)
	}

	for _, note := range s.Notes {
		d.StickyNotes = append(d.StickyNotes, NoteRecord{Text: note.Text, X: note.Pos.X, Y: note.Pos.Y})
	}

	for _, g := range s.Groups {
		d.Groups = append(d.Groups, GroupRecord{
			X1:          g.X1,
			Y1:          g.Y1,
			X2:          g.X2,
			Y2:          g.Y2,
			Name:        g.Name,
			Color:       g.Color,
			LightBG:     g.LightBG,
			LightBorder: g.LightBorder,
			DarkBG:      g.DarkBG,
			DarkBorder:  g.DarkBorder,
			PresetID:    g.PresetID,
		})
	}

	return d
}

// Save writes the scene to path as pretty-printed JSON.
func Save(path string, s *scene.Scene, commands map[string]CommandRecord) error {
	d := FromScene(s, commands)
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	return nil
}
