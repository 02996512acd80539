package export

import (
	"fmt"
	"strings"

	"github.com/trezcool/daftari/core/document"
)

// Blank-line convention: rendered blocks are separated by one blank line,
// except consecutive list blocks of the same kind, which sit on adjacent
// lines. Numbered lists restart at 1 for each contiguous run.
func renderMarkdown(doc document.Document) (string, []Warning) {
	var b strings.Builder
	var warnings []Warning

	var prevType document.BlockType
	counter := 0 // position within the current numbered run
	for i, blk := range doc.Blocks {
		if blk.Type != document.TypeNumbered {
			counter = 0
		} else {
			counter++
		}

		seg, warns := renderBlock(blk, counter)
		warnings = append(warnings, warns...)

		if i > 0 {
			if document.IsListType(blk.Type) && blk.Type == prevType {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(seg)
		prevType = blk.Type
	}
	return b.String(), warnings
}

func renderBlock(blk document.Block, numberedPos int) (string, []Warning) {
	indent := strings.Repeat("  ", blk.IndentLevel())

	switch blk.Type {
	case document.TypeHeading1:
		return "# " + blk.Content, nil
	case document.TypeHeading2:
		return "## " + blk.Content, nil
	case document.TypeHeading3:
		return "### " + blk.Content, nil
	case document.TypeParagraph:
		return blk.Content, nil
	case document.TypeBullet:
		return indent + "- " + blk.Content, nil
	case document.TypeNumbered:
		return fmt.Sprintf("%s%d. %s", indent, numberedPos, blk.Content), nil
	case document.TypeChecklist:
		box := "- [ ] "
		if blk.Checked() {
			box = "- [x] "
		}
		return indent + box + blk.Content, nil
	case document.TypeQuote:
		return prefixLines(blk.Content, "> "), nil
	case document.TypeDivider:
		return "---", nil
	case document.TypeCallout:
		return renderCallout(blk)
	case document.TypeCode:
		lang := blk.Metadata.String(document.MetaLanguage)
		return "```" + lang + "\n" + blk.Content + "\n```", nil
	case document.TypeImage:
		return renderImage(blk)
	case document.TypeTable:
		return renderTable(blk)
	case document.TypeEquation:
		return "$$\n" + blk.Content + "\n$$", nil
	}
	// unreachable for the closed type set
	return blk.Content, []Warning{{BlockID: blk.ID, Message: fmt.Sprintf("unknown block type %q", blk.Type)}}
}

func renderCallout(blk document.Block) (string, []Warning) {
	var warnings []Warning
	icon := blk.Metadata.String(document.MetaIcon)
	if icon == "" {
		icon = "💡"
		warnings = append(warnings, Warning{BlockID: blk.ID, Message: "callout has no icon; using default"})
	}
	return prefixLines(blk.Content, "> "+icon+" "), warnings
}

func renderImage(blk document.Block) (string, []Warning) {
	var warnings []Warning
	src := blk.Metadata.String(document.MetaSrc)
	if src == "" {
		src = "about:blank"
		warnings = append(warnings, Warning{BlockID: blk.ID, Message: "image has no src; using placeholder"})
	}
	md := fmt.Sprintf("![%s](%s)", blk.Metadata.String(document.MetaAlt), src)
	if caption := blk.Metadata.String(document.MetaCaption); caption != "" {
		md += "\n*" + caption + "*"
	}
	return md, warnings
}

// renderTable builds a GitHub pipe table from metadata.rows ([][]string; the
// first row is the header). Malformed rows degrade to a single-cell table
// holding the block content.
func renderTable(blk document.Block) (string, []Warning) {
	rows, ok := tableRows(blk.Metadata)
	if !ok || len(rows) == 0 {
		fallback := "| " + escapePipes(blk.Content) + " |\n| --- |"
		return fallback, []Warning{{BlockID: blk.ID, Message: "table has no rows; rendering content as a single cell"}}
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var b strings.Builder
	for i, row := range rows {
		b.WriteString("|")
		for col := 0; col < width; col++ {
			cell := ""
			if col < len(row) {
				cell = row[col]
			}
			b.WriteString(" " + escapePipes(cell) + " |")
		}
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func tableRows(meta document.Metadata) ([][]string, bool) {
	switch val := meta[document.MetaRows].(type) {
	case [][]string:
		return val, true
	case []interface{}:
		rows := make([][]string, 0, len(val))
		for _, r := range val {
			cells, ok := r.([]interface{})
			if !ok {
				return nil, false
			}
			row := make([]string, 0, len(cells))
			for _, c := range cells {
				s, ok := c.(string)
				if !ok {
					return nil, false
				}
				row = append(row, s)
			}
			rows = append(rows, row)
		}
		return rows, true
	}
	return nil, false
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
