package testutil

import (
	"testing"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/daftari/core/document"
	"github.com/trezcool/daftari/core/folder"
)

// CreateDocument persists a document with the given blocks (defaults to one
// empty paragraph) for use as a test fixture.
func CreateDocument(
	t *testing.T,
	repo document.Repository,
	title, folderID string,
	tags []string,
	blocks ...document.Block,
) document.Document {
	t.Helper()
	if len(blocks) == 0 {
		blocks = []document.Block{document.NewBlock(document.TypeParagraph)}
	}
	tstamp := time.Now().UTC()
	doc := document.Document{
		Title:     title,
		Blocks:    blocks,
		Tags:      tags,
		FolderID:  folderID,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	doc, err := repo.CreateDocument(doc)
	if err != nil {
		t.Fatalf("CreateDocument() failed: %v", err)
	}
	return doc
}

// CreateFolder persists a folder fixture.
func CreateFolder(t *testing.T, repo folder.Repository, name, parentID string) folder.Folder {
	t.Helper()
	tstamp := time.Now().UTC()
	f, err := repo.CreateFolder(folder.Folder{
		Name:      name,
		ParentID:  parentID,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateFolder() failed: %v", err)
	}
	return f
}

// Block builds a block with a fixed id for deterministic fixtures.
func Block(id string, t document.BlockType, content string, meta document.Metadata) document.Block {
	return document.Block{ID: id, Type: t, Content: content, Metadata: meta}
}

// AssertEqualText fails with a unified diff when got != want.
func AssertEqualText(t *testing.T, got, want string) {
	t.Helper()
	if got == want {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	t.Errorf("unexpected output:\n%s", diff)
}
