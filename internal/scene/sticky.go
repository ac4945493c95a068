package scene

import (
	"github.com/google/uuid"

	"nodesailor/pkg/geometry"
)

// StickyNote is a free-floating text annotation. Pos is the top-left corner
// of the text bounding box.
type StickyNote struct {
	ID   uuid.UUID
	Text string
	Pos  geometry.Point2D
}

// NewStickyNote creates a sticky note at the given anchor.
func NewStickyNote(text string, pos geometry.Point2D) *StickyNote {
	return &StickyNote{ID: uuid.New(), Text: text, Pos: pos}
}
