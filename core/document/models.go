package document

import (
	"encoding/json"
	"time"

	"github.com/trezcool/daftari/core"
)

// BlockType identifies one of the closed set of block kinds.
type BlockType string

const (
	TypeHeading1  BlockType = "heading1"
	TypeHeading2  BlockType = "heading2"
	TypeHeading3  BlockType = "heading3"
	TypeParagraph BlockType = "paragraph"
	TypeBullet    BlockType = "bullet"
	TypeNumbered  BlockType = "numbered"
	TypeChecklist BlockType = "checklist"
	TypeQuote     BlockType = "quote"
	TypeDivider   BlockType = "divider"
	TypeCallout   BlockType = "callout"
	TypeCode      BlockType = "code"
	TypeImage     BlockType = "image"
	TypeTable     BlockType = "table"
	TypeEquation  BlockType = "equation"
)

// Metadata holds the type-specific fields of a Block (e.g. `checked` for
// checklist, `language` for code). Values are kept in their JSON-canonical
// form so that a JSON round trip reproduces an identical Metadata.
type Metadata map[string]interface{}

// UnmarshalJSON canonicalizes decoded values: numbers with an integral value
// become int, everything else keeps its default JSON decoding.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = nil
		return nil
	}
	res := make(Metadata, len(raw))
	for k, v := range raw {
		res[k] = canonicalize(v)
	}
	*m = res
	return nil
}

func canonicalize(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = canonicalize(item)
		}
		return val
	case map[string]interface{}:
		for k, item := range val {
			val[k] = canonicalize(item)
		}
		return val
	default:
		return v
	}
}

func (m Metadata) String(key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func (m Metadata) Bool(key string) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return false
}

func (m Metadata) Int(key string) int {
	switch n := m[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

// Merge shallow-merges `patch` into a copy of `m`; patch values overwrite.
func (m Metadata) Merge(patch Metadata) Metadata {
	if len(m) == 0 && len(patch) == 0 {
		return m
	}
	res := make(Metadata, len(m)+len(patch))
	for k, v := range m {
		res[k] = v
	}
	for k, v := range patch {
		res[k] = v
	}
	return res
}

func (m Metadata) clone() Metadata {
	if m == nil {
		return nil
	}
	res := make(Metadata, len(m))
	for k, v := range m {
		res[k] = cloneValue(v)
	}
	return res
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []interface{}:
		res := make([]interface{}, len(val))
		for i, item := range val {
			res[i] = cloneValue(item)
		}
		return res
	case map[string]interface{}:
		res := make(map[string]interface{}, len(val))
		for k, item := range val {
			res[k] = cloneValue(item)
		}
		return res
	default:
		return v
	}
}

// Block is an atomic, typed unit of content within a Document.
// Content is plain text; it is ignored (kept empty) for divider and image.
type Block struct {
	ID       string    `json:"id"`
	Type     BlockType `json:"type"`
	Content  string    `json:"content"`
	Metadata Metadata  `json:"metadata,omitempty"`
}

func (b Block) Clone() Block {
	b.Metadata = b.Metadata.clone()
	return b
}

func (b Block) Checked() bool    { return b.Metadata.Bool(MetaChecked) }
func (b Block) IndentLevel() int { return b.Metadata.Int(MetaIndentLevel) }

// Document is an ordered sequence of Blocks. It always contains at least one
// block; block ids are unique within it.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Blocks    []Block   `json:"blocks"`
	Tags      []string  `json:"tags,omitempty"`
	FolderID  string    `json:"folder_id,omitempty"` // empty = root
	CreatedAt time.Time `json:"created_at"`          // UTC
	UpdatedAt time.Time `json:"updated_at"`          // UTC
}

func (d Document) Clone() Document {
	blocks := make([]Block, len(d.Blocks))
	for i, b := range d.Blocks {
		blocks[i] = b.Clone()
	}
	d.Blocks = blocks
	if d.Tags != nil {
		d.Tags = append([]string(nil), d.Tags...)
	}
	return d
}

// BlockIndex returns the position of the block with the given id, or -1.
func (d Document) BlockIndex(blockID string) int {
	for i, b := range d.Blocks {
		if b.ID == blockID {
			return i
		}
	}
	return -1
}

// Subject is the document's primary tag, used as a sort key by the organizer.
func (d Document) Subject() string {
	if len(d.Tags) == 0 {
		return ""
	}
	return d.Tags[0]
}

// HasTags reports whether the document carries every one of the given tags.
func (d Document) HasTags(tags []string) bool {
	for _, want := range tags {
		var found bool
		for _, tag := range d.Tags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// DefaultTitle is assigned when a document is created or renamed with an
// empty title.
const DefaultTitle = "Untitled"

// NewDocument contains information needed to create a new Document.
type NewDocument struct {
	Title    string   `json:"title"`
	FolderID string   `json:"folder_id"`
	Tags     []string `json:"tags" validate:"omitempty,dive,required"`
}

func (nd *NewDocument) Validate() error {
	nd.Title = core.CleanString(nd.Title)
	if nd.Title == "" {
		nd.Title = DefaultTitle
	}
	for i, tag := range nd.Tags {
		nd.Tags[i] = core.CleanString(tag)
	}
	return core.Validate.Struct(nd)
}

// UpdateDocument defines what information may be provided to modify an
// existing Document. Nil fields are left untouched.
type UpdateDocument struct {
	Title    *string   `json:"title"`
	FolderID *string   `json:"folder_id"`
	Tags     *[]string `json:"tags" validate:"omitempty,dive,required"`
}

func (ud *UpdateDocument) Validate() error {
	if ud.Title != nil {
		title := core.CleanString(*ud.Title)
		if title == "" {
			title = DefaultTitle
		}
		ud.Title = &title
	}
	if ud.Tags != nil {
		for i, tag := range *ud.Tags {
			(*ud.Tags)[i] = core.CleanString(tag)
		}
	}
	return core.Validate.Struct(ud)
}
