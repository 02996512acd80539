package editor_test

import (
	"testing"

	"github.com/trezcool/daftari/core/document"
	"github.com/trezcool/daftari/core/editor"
)

func TestSlashMenu_Matches(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []document.BlockType
	}{
		{
			name:  "empty query lists the whole registry",
			query: "",
			want: []document.BlockType{
				document.TypeHeading1, document.TypeHeading2, document.TypeHeading3, document.TypeParagraph,
				document.TypeBullet, document.TypeNumbered, document.TypeChecklist,
				document.TypeCode, document.TypeImage, document.TypeTable, document.TypeEquation,
				document.TypeQuote, document.TypeDivider, document.TypeCallout,
			},
		},
		{
			name:  "head matches the three headings",
			query: "head",
			want:  []document.BlockType{document.TypeHeading1, document.TypeHeading2, document.TypeHeading3},
		},
		{
			name:  "case-insensitive on label",
			query: "TO-DO",
			want:  []document.BlockType{document.TypeChecklist},
		},
		{
			name:  "matches the type identifier too",
			query: "paragraph",
			want:  []document.BlockType{document.TypeParagraph},
		},
		{
			name:  "list spans both categories in registry order",
			query: "list",
			want:  []document.BlockType{document.TypeBullet, document.TypeNumbered, document.TypeChecklist},
		},
		{
			name:  "no match",
			query: "zzz",
			want:  []document.BlockType{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var menu editor.SlashMenu
			menu.Open(editor.Point{})
			menu.SetQuery(tt.query)

			matches := menu.Matches()
			got := make([]document.BlockType, 0, len(matches))
			for _, info := range matches {
				got = append(got, info.Type)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Matches(%q)[%d] = %s, want %s", tt.query, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSlashMenu_fullListGrouping(t *testing.T) {
	var menu editor.SlashMenu
	menu.Open(editor.Point{})

	matches := menu.Matches()
	if len(matches) != 14 {
		t.Fatalf("open menu lists %d entries, want all 14", len(matches))
	}
	categories := make([]document.Category, 0, 4)
	for _, info := range matches {
		if len(categories) == 0 || categories[len(categories)-1] != info.Category {
			categories = append(categories, info.Category)
		}
	}
	if len(categories) != 4 {
		t.Errorf("entries group into %d contiguous categories, want 4: %v", len(categories), categories)
	}
}

func TestSlashMenu_HandleKey(t *testing.T) {
	key := func(k string) editor.KeyEvent { return editor.KeyEvent{Key: k} }

	t.Run("arrow navigation wraps", func(t *testing.T) {
		var menu editor.SlashMenu
		menu.Open(editor.Point{})
		menu.SetQuery("head") // 3 matches

		if !menu.HandleKey(key("ArrowDown")) {
			t.Fatal("ArrowDown not consumed")
		}
		if menu.SelectedIndex() != 1 {
			t.Errorf("selected = %d, want 1", menu.SelectedIndex())
		}
		menu.HandleKey(key("ArrowDown"))
		menu.HandleKey(key("ArrowDown")) // past the end
		if menu.SelectedIndex() != 0 {
			t.Errorf("selected = %d after wrap, want 0", menu.SelectedIndex())
		}
		menu.HandleKey(key("ArrowUp")) // before the start
		if menu.SelectedIndex() != 2 {
			t.Errorf("selected = %d after reverse wrap, want 2", menu.SelectedIndex())
		}
	})

	t.Run("tab advances like ArrowDown", func(t *testing.T) {
		var menu editor.SlashMenu
		menu.Open(editor.Point{})
		menu.HandleKey(key("Tab"))
		if menu.SelectedIndex() != 1 {
			t.Errorf("selected = %d, want 1", menu.SelectedIndex())
		}
	})

	t.Run("home and end", func(t *testing.T) {
		var menu editor.SlashMenu
		menu.Open(editor.Point{})
		menu.HandleKey(key("End"))
		if menu.SelectedIndex() != 13 {
			t.Errorf("End selected = %d, want 13", menu.SelectedIndex())
		}
		menu.HandleKey(key("Home"))
		if menu.SelectedIndex() != 0 {
			t.Errorf("Home selected = %d, want 0", menu.SelectedIndex())
		}
	})

	t.Run("digit selects nth filtered entry", func(t *testing.T) {
		var menu editor.SlashMenu
		menu.Open(editor.Point{})
		menu.SetQuery("head")
		menu.HandleKey(key("2"))
		if info, _ := menu.Selected(); info.Type != document.TypeHeading2 {
			t.Errorf("digit 2 selected %s, want heading2", info.Type)
		}
		menu.HandleKey(key("9")) // out of range: selection unchanged
		if info, _ := menu.Selected(); info.Type != document.TypeHeading2 {
			t.Errorf("out-of-range digit moved selection to %s", info.Type)
		}
	})

	t.Run("query change resets selection", func(t *testing.T) {
		var menu editor.SlashMenu
		menu.Open(editor.Point{})
		menu.HandleKey(key("ArrowDown"))
		menu.SetQuery("h")
		if menu.SelectedIndex() != 0 {
			t.Errorf("selected = %d after query change, want 0", menu.SelectedIndex())
		}
	})

	t.Run("closed menu consumes nothing", func(t *testing.T) {
		var menu editor.SlashMenu
		if menu.HandleKey(key("ArrowDown")) {
			t.Error("closed menu consumed a key")
		}
	})
}

func TestSlashMenu_Position(t *testing.T) {
	viewport := editor.Size{W: 800, H: 600}
	menu := editor.Size{W: 200, H: 300}

	tests := []struct {
		name   string
		anchor editor.Point
		want   editor.Point
	}{
		{name: "fits below the anchor", anchor: editor.Point{X: 100, Y: 100}, want: editor.Point{X: 100, Y: 100}},
		{name: "flips above near the bottom", anchor: editor.Point{X: 100, Y: 500}, want: editor.Point{X: 100, Y: 200}},
		{name: "clamped to the right edge", anchor: editor.Point{X: 700, Y: 100}, want: editor.Point{X: 600, Y: 100}},
		{name: "clamped into both axes", anchor: editor.Point{X: 790, Y: 590}, want: editor.Point{X: 600, Y: 290}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m editor.SlashMenu
			m.Open(tt.anchor)
			if got := m.Position(menu, viewport); got != tt.want {
				t.Errorf("Position() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
