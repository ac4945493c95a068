package doc

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"nodesailor/internal/scene"
	"nodesailor/pkg/geometry"
)

var validate = validator.New()

// LoadResult reports what the loader had to repair or drop.
type LoadResult struct {
	// Backfilled is true when any node was missing a VLAN field; the file
	// has been rewritten with the defaults filled in.
	Backfilled bool

	SkippedNodes       int
	SkippedConnections int

	// Commands carries the document's custom commands for the command
	// store. Nil or empty means the commands file must be reset.
	Commands map[string]CommandRecord
}

// Load reads a map document from disk, builds the scene, and rewrites the
// file in place when any node needed a VLAN backfill.
func Load(path string) (*scene.Scene, *LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read map: %w", err)
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, nil, fmt.Errorf("parse map: %w", err)
	}

	s, res := Build(&d)

	if res.Backfilled {
		if err := Save(path, s, res.Commands); err != nil {
			slog.Warn("could not rewrite backfilled map", "path", path, "err", err)
		} else {
			slog.Info("rewrote map with backfilled VLAN fields", "path", path)
		}
	}
	return s, res, nil
}

// Build constructs a scene from a parsed document, applying the schema
// reconciliation and defensive backfills of the format contract.
func Build(d *Document) (*scene.Scene, *LoadResult) {
	s := scene.New()
	res := &LoadResult{Commands: d.CustomCommands}

	// VLAN schema: union of declared labels and any VLAN_* keys found on
	// nodes. Display names default to the key itself.
	labels := make(map[string]string, len(d.VLANLabels))
	for key, name := range d.VLANLabels {
		labels[key] = name
	}
	for i := range d.Nodes {
		for key := range d.Nodes[i].VLANs {
			if _, ok := labels[key]; !ok {
				labels[key] = key
			}
		}
	}
	if len(labels) > 0 {
		var order []string
		if len(d.VLANLabelOrder) > 0 {
			order = scene.ReconcileOrder(labels, d.VLANLabelOrder)
		} else {
			// Legacy document: synthesize an order from the keys.
			for key := range labels {
				order = append(order, key)
			}
			sortVLANKeys(order)
		}
		s.VLANLabels = labels
		s.VLANOrder = order
	}

	// Nodes, keeping an index map so connection references survive skips.
	byIndex := make([]*scene.Node, len(d.Nodes))
	for i := range d.Nodes {
		rec := &d.Nodes[i]
		if err := validate.Struct(rec); err != nil {
			slog.Warn("skipping invalid node", "index", i, "err", err)
			res.SkippedNodes++
			continue
		}
		n := scene.NewNode(rec.Name, geometry.Point2D{X: rec.X, Y: rec.Y}, nil)
		n.RemoteDesktopAddress = rec.RemoteDesktopAddress
		n.FilePath = rec.FilePath
		n.WebConfigURL = rec.WebConfigURL
		for key, addr := range rec.VLANs {
			if _, ok := s.VLANLabels[key]; ok {
				n.VLANs[key] = addr
			}
		}
		// Backfill missing schema keys with empty addresses.
		for _, key := range s.VLANOrder {
			if _, ok := n.VLANs[key]; !ok {
				n.VLANs[key] = ""
				res.Backfilled = true
			}
		}
		s.AttachNode(n)
		byIndex[i] = n
	}

	for i, rec := range d.Connections {
		from := nodeAt(byIndex, rec.From)
		to := nodeAt(byIndex, rec.To)
		if from == nil || to == nil || from == to {
			slog.Warn("skipping connection with bad endpoints", "index", i, "from", rec.From, "to", rec.To)
			res.SkippedConnections++
			continue
		}
		c := &scene.Connection{
			ID:       uuid.New(),
			From:     from,
			To:       to,
			Label:    rec.Label,
			Info:     rec.Info,
			LabelPos: 0.5,
		}
		if rec.LabelPos != nil {
			pos, err := clampLabelPos(*rec.LabelPos)
			if err != nil {
				slog.Warn("clamping connection label position", "index", i, "err", err)
			}
			c.LabelPos = pos
		}
		for _, wp := range rec.Waypoints {
			c.Waypoints = append(c.Waypoints, geometry.Point2D{X: wp[0], Y: wp[1]})
		}
		if err := s.AttachConnection(c); err != nil {
			res.SkippedConnections++
		}
	}

	for _, rec := range d.StickyNotes {
		s.Notes = append(s.Notes, scene.NewStickyNote(rec.Text, geometry.Point2D{X: rec.X, Y: rec.Y}))
	}

	if len(d.GroupColorPresets) > 0 {
		s.Presets = d.GroupColorPresets
	}
	for _, rec := range d.Groups {
		g := scene.NewGroup(rec.Name, rec.X1, rec.Y1, rec.X2, rec.Y2)
		g.PresetID = rec.PresetID
		g.Color = rec.Color
		g.LightBG = rec.LightBG
		g.LightBorder = rec.LightBorder
		g.DarkBG = rec.DarkBG
		g.DarkBorder = rec.DarkBorder
		s.Groups = append(s.Groups, g)
	}

	if d.GroupWindowHeight > 0 {
		s.GroupWindowHeight = d.GroupWindowHeight
	}
	if d.NodeWindowHeight > 0 {
		s.NodeWindowHeight = d.NodeWindowHeight
	}

	return s, res
}

func nodeAt(nodes []*scene.Node, i int) *scene.Node {
	if i < 0 || i >= len(nodes) {
		return nil
	}
	return nodes[i]
}
