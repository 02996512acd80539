package editor

import (
	"html"
	"regexp"
	"strings"

	"github.com/trezcool/daftari/core/document"
)

var (
	tagRegex        = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`[ \t]+`)
)

// flattenPaste reduces pasted rich content to plain text: markup is stripped,
// entities are decoded and runs of blanks collapse to a single space.
func flattenPaste(s string) string {
	s = tagRegex.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Controller binds one visible block to the Document Store: it turns surface
// edit events and key presses into store calls and owns the block's ephemeral
// state (slash menu, nothing else). One Controller per visible block.
type Controller struct {
	svc     *document.Service
	nav     Navigator
	surface Surface

	docID   string
	blockID string

	menu SlashMenu
}

func NewController(svc *document.Service, nav Navigator, surface Surface, docID, blockID string) *Controller {
	return &Controller{
		svc:     svc,
		nav:     nav,
		surface: surface,
		docID:   docID,
		blockID: blockID,
	}
}

func (c *Controller) BlockID() string  { return c.blockID }
func (c *Controller) Menu() *SlashMenu { return &c.menu }

// OnContentChange pushes the surface text into the store and keeps the slash
// menu in sync with it. The surface text is the source of truth.
func (c *Controller) OnContentChange() error {
	text := c.surface.GetText()

	switch {
	case !c.menu.IsOpen() && text == "/":
		c.menu.Open(c.surface.CaretScreenPosition())
	case c.menu.IsOpen() && !strings.HasPrefix(text, "/"):
		c.menu.Close() // no conversion
	case c.menu.IsOpen():
		c.menu.SetQuery(text[1:])
	}

	_, err := c.svc.UpdateBlock(c.docID, c.blockID, text)
	return err
}

// OnPaste flattens rich content to plain text before it reaches the surface.
func (c *Controller) OnPaste(content string) error {
	c.surface.SetText(flattenPaste(content))
	return c.OnContentChange()
}

// OnKey handles a key press; it reports whether the key was consumed.
func (c *Controller) OnKey(key KeyEvent) (bool, error) {
	if c.menu.IsOpen() {
		return c.onMenuKey(key)
	}

	switch key.Key {
	case "Enter":
		if key.modified() {
			return false, nil
		}
		return true, c.insertParagraphBelow()
	case "Backspace":
		if c.surface.GetText() != "" {
			return false, nil
		}
		return true, c.deleteAndFocusNeighbor()
	case "Tab":
		return c.indent(key.Shift)
	}
	return false, nil
}

func (c *Controller) onMenuKey(key KeyEvent) (bool, error) {
	switch key.Key {
	case "Escape":
		c.menu.Close()
		return true, nil
	case "Enter":
		info, ok := c.menu.Selected()
		if !ok {
			c.menu.Close()
			return true, nil
		}
		return true, c.Commit(info.Type)
	}
	return c.menu.HandleKey(key), nil
}

// Commit converts the block to the chosen type, clears its content and
// closes the menu. Pointer activation of a menu entry calls it directly.
func (c *Controller) Commit(t document.BlockType) error {
	c.menu.Close()
	c.surface.SetText("")
	if _, err := c.svc.UpdateBlock(c.docID, c.blockID, ""); err != nil {
		return err
	}
	_, err := c.svc.ConvertBlock(c.docID, c.blockID, t)
	return err
}

// insertParagraphBelow commits the current text, inserts a new paragraph
// right after this block and moves focus to it.
func (c *Controller) insertParagraphBelow() error {
	if _, err := c.svc.UpdateBlock(c.docID, c.blockID, c.surface.GetText()); err != nil {
		return err
	}
	doc, err := c.svc.GetByID(c.docID)
	if err != nil {
		return err
	}
	idx := doc.BlockIndex(c.blockID)
	if idx < 0 {
		return document.ErrBlockNotFound
	}
	_, blk, err := c.svc.AddBlock(c.docID, document.TypeParagraph, idx+1)
	if err != nil {
		return err
	}
	c.nav.FocusBlock(blk.ID)
	return nil
}

// deleteAndFocusNeighbor removes the (empty) block and focuses the previous
// one, or the new first block when there is none.
func (c *Controller) deleteAndFocusNeighbor() error {
	doc, err := c.svc.GetByID(c.docID)
	if err != nil {
		return err
	}
	idx := doc.BlockIndex(c.blockID)
	if idx < 0 {
		return document.ErrBlockNotFound
	}
	doc, err = c.svc.DeleteBlock(c.docID, c.blockID)
	if err != nil {
		return err
	}
	c.menu.Close()
	focus := idx - 1
	if focus < 0 {
		focus = 0
	}
	c.nav.FocusBlock(doc.Blocks[focus].ID)
	return nil
}

func (c *Controller) indent(outdent bool) (bool, error) {
	doc, err := c.svc.GetByID(c.docID)
	if err != nil {
		return false, err
	}
	idx := doc.BlockIndex(c.blockID)
	if idx < 0 {
		return false, document.ErrBlockNotFound
	}
	blk := doc.Blocks[idx]
	if !document.IsListType(blk.Type) {
		return false, nil
	}
	level := blk.IndentLevel() + 1
	if outdent {
		level = blk.IndentLevel() - 1
	}
	_, err = c.svc.SetIndentLevel(c.docID, c.blockID, level)
	return true, err
}

// ToggleChecked flips the checklist state, independent of content editing.
func (c *Controller) ToggleChecked() error {
	_, err := c.svc.ToggleChecked(c.docID, c.blockID)
	return err
}

// OnBlur clears ephemeral state when focus moves away; the open menu closes
// with no side effects.
func (c *Controller) OnBlur() {
	c.menu.Close()
}

// OnClickOutside closes the menu when a pointer press lands outside its
// bounds at the given position.
func (c *Controller) OnClickOutside(at Point, menuSize, viewport Size) {
	if !c.menu.IsOpen() {
		return
	}
	pos := c.menu.Position(menuSize, viewport)
	inside := at.X >= pos.X && at.X < pos.X+menuSize.W && at.Y >= pos.Y && at.Y < pos.Y+menuSize.H
	if !inside {
		c.menu.Close()
	}
}
