package folder_test

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/trezcool/daftari/core/document"
	"github.com/trezcool/daftari/core/folder"
	inmemdb "github.com/trezcool/daftari/storage/database/inmem"
	testutil "github.com/trezcool/daftari/tests"
)

func setup(t *testing.T) (*folder.Service, folder.Repository, *document.Service, document.Repository) {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	docRepo := inmemdb.NewDocumentRepository(db)
	docSvc := document.NewService(docRepo)
	repo := inmemdb.NewFolderRepository(db)
	return folder.NewService(repo, docSvc), repo, docSvc, docRepo
}

func TestService_Create(t *testing.T) {
	svc, repo, _, _ := setup(t)
	parent := testutil.CreateFolder(t, repo, "Parent", "")

	tests := []struct {
		name    string
		input   folder.NewFolder
		wantErr bool
	}{
		{name: "root folder", input: folder.NewFolder{Name: "Science"}},
		{name: "nested folder", input: folder.NewFolder{Name: "Biology", ParentID: parent.ID}},
		{name: "empty name", input: folder.NewFolder{Name: "  "}, wantErr: true},
		{name: "unknown parent", input: folder.NewFolder{Name: "X", ParentID: "nope"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := svc.Create(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && f.ID == "" {
				t.Error("Create() returned folder without id")
			}
		})
	}
}

func TestService_Rename(t *testing.T) {
	svc, repo, _, _ := setup(t)
	f := testutil.CreateFolder(t, repo, "Old", "")

	got, err := svc.Rename(f.ID, "  New  ")
	if err != nil {
		t.Fatalf("Rename() failed: %v", err)
	}
	if got.Name != "New" {
		t.Errorf("Rename() name = %q, want %q", got.Name, "New")
	}

	if _, err = svc.Rename(f.ID, "   "); err == nil {
		t.Error("Rename() to blank succeeded, want validation error")
	}
	got, _ = svc.GetByID(f.ID)
	if got.Name != "New" {
		t.Errorf("failed Rename() changed the name to %q", got.Name)
	}
}

// a chain A > B > C: a folder cannot move under itself or any of its
// descendants; every other target, including root, is valid.
func TestService_Move(t *testing.T) {
	tests := []struct {
		name        string
		folder      string // names; the chain is A > B > C plus a root Other
		target      string
		wantInvalid bool
	}{
		{name: "into own grandchild", folder: "A", target: "C", wantInvalid: true},
		{name: "into own child", folder: "A", target: "B", wantInvalid: true},
		{name: "into itself", folder: "A", target: "A", wantInvalid: true},
		{name: "into unrelated folder", folder: "A", target: "Other"},
		{name: "leaf anywhere", folder: "C", target: "Other"},
		{name: "to root", folder: "B", target: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := setup(t)
			a := testutil.CreateFolder(t, repo, "A", "")
			b := testutil.CreateFolder(t, repo, "B", a.ID)
			c := testutil.CreateFolder(t, repo, "C", b.ID)
			other := testutil.CreateFolder(t, repo, "Other", "")
			ids := map[string]string{"A": a.ID, "B": b.ID, "C": c.ID, "Other": other.ID, "": ""}

			before, _ := svc.GetByID(ids[tt.folder])
			got, err := svc.Move(ids[tt.folder], ids[tt.target])
			if tt.wantInvalid {
				var invErr *folder.InvalidMoveError
				if !errors.As(err, &invErr) {
					t.Fatalf("Move() error = %v, want InvalidMoveError", err)
				}
				after, _ := svc.GetByID(ids[tt.folder])
				if after.ParentID != before.ParentID {
					t.Error("failed Move() changed the parent")
				}
				return
			}
			if err != nil {
				t.Fatalf("Move() failed: %v", err)
			}
			if got.ParentID != ids[tt.target] {
				t.Errorf("Move() parent = %q, want %q", got.ParentID, ids[tt.target])
			}
		})
	}
}

func TestService_Descendants(t *testing.T) {
	svc, repo, _, _ := setup(t)
	a := testutil.CreateFolder(t, repo, "A", "")
	b := testutil.CreateFolder(t, repo, "B", a.ID)
	c := testutil.CreateFolder(t, repo, "C", b.ID)
	d := testutil.CreateFolder(t, repo, "D", a.ID)
	testutil.CreateFolder(t, repo, "Unrelated", "")

	got, err := svc.Descendants(a.ID)
	if err != nil {
		t.Fatalf("Descendants() failed: %v", err)
	}
	sort.Strings(got)
	want := []string{b.ID, c.ID, d.ID}
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Descendants() = %v, want %v", got, want)
	}

	if got, _ = svc.Descendants(c.ID); len(got) != 0 {
		t.Errorf("Descendants(leaf) = %v, want none", got)
	}
}

func TestService_MoveDocument(t *testing.T) {
	svc, repo, _, docRepo := setup(t)
	f := testutil.CreateFolder(t, repo, "Notes", "")
	doc := testutil.CreateDocument(t, docRepo, "Doc", "", nil)

	got, err := svc.MoveDocument(doc.ID, f.ID)
	if err != nil {
		t.Fatalf("MoveDocument() failed: %v", err)
	}
	if got.FolderID != f.ID {
		t.Errorf("MoveDocument() folder = %q, want %q", got.FolderID, f.ID)
	}

	if _, err = svc.MoveDocument(doc.ID, "nope"); err != folder.ErrNotFound {
		t.Errorf("MoveDocument(unknown folder) error = %v, want ErrNotFound", err)
	}

	got, err = svc.MoveDocument(doc.ID, "")
	if err != nil {
		t.Fatalf("MoveDocument(root) failed: %v", err)
	}
	if got.FolderID != "" {
		t.Errorf("MoveDocument(root) folder = %q, want root", got.FolderID)
	}
}

func TestService_Delete_reparent(t *testing.T) {
	svc, repo, docSvc, docRepo := setup(t)
	a := testutil.CreateFolder(t, repo, "A", "")
	b := testutil.CreateFolder(t, repo, "B", a.ID)
	c := testutil.CreateFolder(t, repo, "C", b.ID)
	docA := testutil.CreateDocument(t, docRepo, "InA", a.ID, nil)
	docC := testutil.CreateDocument(t, docRepo, "InC", c.ID, nil)

	if err := svc.Delete(a.ID, true); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := svc.GetByID(a.ID); err != folder.ErrNotFound {
		t.Errorf("deleted folder still readable, error = %v", err)
	}

	// direct child folder moved to root, its own subtree intact
	gotB, err := svc.GetByID(b.ID)
	if err != nil {
		t.Fatalf("child folder gone: %v", err)
	}
	if gotB.ParentID != "" {
		t.Errorf("child folder parent = %q, want root", gotB.ParentID)
	}
	gotC, _ := svc.GetByID(c.ID)
	if gotC.ParentID != b.ID {
		t.Errorf("grandchild parent = %q, want %q (subtree must stay intact)", gotC.ParentID, b.ID)
	}

	// direct documents moved to root; deeper documents untouched
	d1, _ := docSvc.GetByID(docA.ID)
	if d1.FolderID != "" {
		t.Errorf("direct document folder = %q, want root", d1.FolderID)
	}
	d2, _ := docSvc.GetByID(docC.ID)
	if d2.FolderID != c.ID {
		t.Errorf("nested document folder = %q, want %q", d2.FolderID, c.ID)
	}
}

func TestService_Delete_cascade(t *testing.T) {
	svc, repo, docSvc, docRepo := setup(t)
	a := testutil.CreateFolder(t, repo, "A", "")
	b := testutil.CreateFolder(t, repo, "B", a.ID)
	keep := testutil.CreateFolder(t, repo, "Keep", "")
	docB := testutil.CreateDocument(t, docRepo, "InB", b.ID, nil)

	if err := svc.Delete(a.ID, false); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	for _, id := range []string{a.ID, b.ID} {
		if _, err := svc.GetByID(id); err != folder.ErrNotFound {
			t.Errorf("folder %s survived cascade delete, error = %v", id, err)
		}
	}
	if _, err := svc.GetByID(keep.ID); err != nil {
		t.Errorf("unrelated folder deleted: %v", err)
	}

	// documents are never deleted with their folders
	doc, err := docSvc.GetByID(docB.ID)
	if err != nil {
		t.Fatalf("document deleted along with its folder: %v", err)
	}
	if doc.FolderID != "" {
		t.Errorf("orphaned document folder = %q, want root", doc.FolderID)
	}
}

func TestService_List(t *testing.T) {
	svc, repo, _, docRepo := setup(t)
	root := ""
	zoo := testutil.CreateFolder(t, repo, "zoology", "")
	testutil.CreateFolder(t, repo, "Algebra", "")
	testutil.CreateFolder(t, repo, "nested", zoo.ID)
	testutil.CreateDocument(t, docRepo, "Beta", "", []string{"math"})
	testutil.CreateDocument(t, docRepo, "Alpha", "", []string{"math", "notes"})
	testutil.CreateDocument(t, docRepo, "Hidden", zoo.ID, nil)

	listing, err := svc.List(folder.ListQuery{FolderID: &root})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	// folders alphabetical, case-insensitive
	names := make([]string, 0, len(listing.Folders))
	for _, f := range listing.Folders {
		names = append(names, f.Name)
	}
	if want := []string{"Algebra", "zoology"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List() folders = %v, want %v", names, want)
	}

	titles := make([]string, 0, len(listing.Documents))
	for _, doc := range listing.Documents {
		titles = append(titles, doc.Title)
	}
	if want := []string{"Alpha", "Beta"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("List() documents = %v, want %v", titles, want)
	}

	if want := map[string]int{"math": 2, "notes": 1}; !reflect.DeepEqual(listing.TagFacets, want) {
		t.Errorf("List() facets = %v, want %v", listing.TagFacets, want)
	}
}
