package folder

import (
	"time"

	"github.com/trezcool/daftari/core"
)

// Folder is a hierarchical container grouping documents and other folders.
// Containment forms a forest: a folder is never its own ancestor.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`     // display hint
	ParentID  string    `json:"parent_id,omitempty"` // empty = root
	CreatedAt time.Time `json:"created_at"`          // UTC
	UpdatedAt time.Time `json:"updated_at"`          // UTC
}

// NewFolder contains information needed to create a new Folder.
type NewFolder struct {
	Name     string `json:"name" validate:"required"`
	Color    string `json:"color"`
	ParentID string `json:"parent_id"`
}

func (nf *NewFolder) Validate() error {
	nf.Name = core.CleanString(nf.Name)
	nf.Color = core.CleanString(nf.Color)
	return core.Validate.Struct(nf)
}
