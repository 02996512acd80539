package document

// Metadata keys understood by the core block kinds.
const (
	MetaChecked     = "checked"     // checklist
	MetaIndentLevel = "indentLevel" // bullet, numbered, checklist
	MetaLanguage    = "language"    // code
	MetaIcon        = "icon"        // callout
	MetaColor       = "color"       // callout
	MetaSrc         = "src"         // image
	MetaAlt         = "alt"         // image
	MetaCaption     = "caption"     // image
	MetaRows        = "rows"        // table
)

// MaxIndentLevel caps list nesting; Tab past this level is a no-op.
const MaxIndentLevel = 5

// Category groups block kinds in the slash-command picker.
type Category string

const (
	CategoryBasic    Category = "basic"
	CategoryList     Category = "list"
	CategoryMedia    Category = "media"
	CategoryAdvanced Category = "advanced"
)

// TypeInfo describes a block kind for pickers and renderers.
type TypeInfo struct {
	Type        BlockType `json:"type"`
	Label       string    `json:"label"`
	Category    Category  `json:"category"`
	StyleRule   string    `json:"style_rule"`
	Placeholder string    `json:"placeholder"`
}

// AllTypes lists every block kind grouped by category, in picker order.
// The order is part of the slash-command contract: filtering never re-sorts.
func AllTypes() []TypeInfo {
	types := [...]BlockType{
		// basic
		TypeHeading1, TypeHeading2, TypeHeading3, TypeParagraph,
		// list
		TypeBullet, TypeNumbered, TypeChecklist,
		// media
		TypeCode, TypeImage, TypeTable, TypeEquation,
		// advanced
		TypeQuote, TypeDivider, TypeCallout,
	}
	infos := make([]TypeInfo, len(types))
	for i, t := range types {
		infos[i] = Describe(t)
	}
	return infos
}

// Describe returns the picker/renderer description of a block kind.
// Every member of the closed type set has an entry.
func Describe(t BlockType) TypeInfo {
	switch t {
	case TypeHeading1:
		return TypeInfo{t, "Heading 1", CategoryBasic, "text-3xl font-bold", "Heading 1"}
	case TypeHeading2:
		return TypeInfo{t, "Heading 2", CategoryBasic, "text-2xl font-bold", "Heading 2"}
	case TypeHeading3:
		return TypeInfo{t, "Heading 3", CategoryBasic, "text-xl font-semibold", "Heading 3"}
	case TypeParagraph:
		return TypeInfo{t, "Text", CategoryBasic, "text-base", "Type '/' for commands"}
	case TypeBullet:
		return TypeInfo{t, "Bulleted list", CategoryList, "list-disc", "List item"}
	case TypeNumbered:
		return TypeInfo{t, "Numbered list", CategoryList, "list-decimal", "List item"}
	case TypeChecklist:
		return TypeInfo{t, "To-do list", CategoryList, "list-none", "To-do"}
	case TypeCode:
		return TypeInfo{t, "Code", CategoryMedia, "font-mono bg-muted", "Write some code..."}
	case TypeImage:
		return TypeInfo{t, "Image", CategoryMedia, "block", ""}
	case TypeTable:
		return TypeInfo{t, "Table", CategoryMedia, "table-auto", ""}
	case TypeEquation:
		return TypeInfo{t, "Equation", CategoryMedia, "font-mono italic", "E = mc^2"}
	case TypeQuote:
		return TypeInfo{t, "Quote", CategoryAdvanced, "border-l-4 italic", "Quote"}
	case TypeDivider:
		return TypeInfo{t, "Divider", CategoryAdvanced, "border-t", ""}
	case TypeCallout:
		return TypeInfo{t, "Callout", CategoryAdvanced, "rounded bg-accent", "Callout"}
	}
	return TypeInfo{Type: t, Label: string(t), Category: CategoryBasic}
}

// ValidType reports whether t is a member of the closed block type set.
func ValidType(t BlockType) bool {
	switch t {
	case TypeHeading1, TypeHeading2, TypeHeading3, TypeParagraph,
		TypeBullet, TypeNumbered, TypeChecklist,
		TypeCode, TypeImage, TypeTable, TypeEquation,
		TypeQuote, TypeDivider, TypeCallout:
		return true
	}
	return false
}

// IsListType reports whether t is an indentable list kind.
func IsListType(t BlockType) bool {
	switch t {
	case TypeBullet, TypeNumbered, TypeChecklist:
		return true
	}
	return false
}

// IsContentless reports whether t carries no editable text content.
func IsContentless(t BlockType) bool {
	return t == TypeDivider || t == TypeImage
}

// DefaultMetadata returns the initial metadata of a freshly created block.
func DefaultMetadata(t BlockType) Metadata {
	switch t {
	case TypeChecklist:
		return Metadata{MetaChecked: false, MetaIndentLevel: 0}
	case TypeBullet, TypeNumbered:
		return Metadata{MetaIndentLevel: 0}
	case TypeCode:
		return Metadata{MetaLanguage: "plaintext"}
	case TypeCallout:
		return Metadata{MetaIcon: "💡", MetaColor: "blue"}
	case TypeImage:
		return Metadata{MetaSrc: "", MetaAlt: "", MetaCaption: ""}
	case TypeTable:
		return Metadata{MetaRows: []interface{}{
			[]interface{}{"", ""},
			[]interface{}{"", ""},
		}}
	}
	return nil
}

// metadataKeys lists the metadata fields relevant to a block kind; converting
// a block drops every key not in the target kind's list.
func metadataKeys(t BlockType) []string {
	switch t {
	case TypeChecklist:
		return []string{MetaChecked, MetaIndentLevel}
	case TypeBullet, TypeNumbered:
		return []string{MetaIndentLevel}
	case TypeCode:
		return []string{MetaLanguage}
	case TypeCallout:
		return []string{MetaIcon, MetaColor}
	case TypeImage:
		return []string{MetaSrc, MetaAlt, MetaCaption}
	case TypeTable:
		return []string{MetaRows}
	}
	return nil
}
