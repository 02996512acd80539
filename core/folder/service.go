package folder

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/document"
)

var (
	// errors
	ErrNotFound  = errors.New("folder not found")
	ErrEmptyName = errors.New("folder name cannot be empty")
)

// InvalidMoveError is returned when a folder move would make the folder its
// own ancestor.
type InvalidMoveError struct {
	FolderID string
	TargetID string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("cannot move folder %s into %s: target is the folder or one of its descendants", e.FolderID, e.TargetID)
}

type (
	Repository interface {
		CreateFolder(f Folder) (Folder, error)
		GetFolderByID(id string) (Folder, error)
		QueryAllFolders() ([]Folder, error)
		UpdateFolder(f Folder) (Folder, error)
		DeleteFoldersByID(ids ...string) error
	}

	Service struct {
		repo   Repository
		docSvc *document.Service
	}

	// Listing is a filtered, sorted view over one folder scope for the
	// organizer UI. Folders are always ordered alphabetically.
	Listing struct {
		Folders   []Folder            `json:"folders"`
		Documents []document.Document `json:"documents"`
		TagFacets map[string]int      `json:"tag_facets"`
	}
)

func NewService(repo Repository, docSvc *document.Service) *Service {
	return &Service{repo: repo, docSvc: docSvc}
}

func (svc *Service) Create(nf NewFolder) (Folder, error) {
	if err := nf.Validate(); err != nil {
		return Folder{}, err
	}
	if nf.ParentID != "" {
		if _, err := svc.repo.GetFolderByID(nf.ParentID); err != nil {
			return Folder{}, err
		}
	}
	now := time.Now().UTC()
	return svc.repo.CreateFolder(Folder{
		Name:      nf.Name,
		Color:     nf.Color,
		ParentID:  nf.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetByID(id string) (Folder, error) {
	return svc.repo.GetFolderByID(id)
}

func (svc *Service) QueryAll() ([]Folder, error) {
	return svc.repo.QueryAllFolders()
}

func (svc *Service) Rename(id, name string) (Folder, error) {
	name = core.CleanString(name)
	if name == "" {
		return Folder{}, core.NewValidationError(ErrEmptyName,
			core.FieldError{Field: "name", Error: ErrEmptyName.Error()})
	}
	f, err := svc.repo.GetFolderByID(id)
	if err != nil {
		return Folder{}, err
	}
	f.Name = name
	f.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFolder(f)
}

func (svc *Service) SetColor(id, color string) (Folder, error) {
	f, err := svc.repo.GetFolderByID(id)
	if err != nil {
		return Folder{}, err
	}
	f.Color = core.CleanString(color)
	f.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFolder(f)
}

// Move reparents the folder; empty newParentID means root. The move is
// rejected with InvalidMoveError when it would create a cycle, i.e. when
// newParentID is the folder itself or any of its descendants.
func (svc *Service) Move(id, newParentID string) (Folder, error) {
	f, err := svc.repo.GetFolderByID(id)
	if err != nil {
		return Folder{}, err
	}
	if newParentID != "" {
		if _, err = svc.repo.GetFolderByID(newParentID); err != nil {
			return Folder{}, err
		}
		if newParentID == id {
			return Folder{}, &InvalidMoveError{FolderID: id, TargetID: newParentID}
		}
		desc, err := svc.Descendants(id)
		if err != nil {
			return Folder{}, err
		}
		for _, d := range desc {
			if d == newParentID {
				return Folder{}, &InvalidMoveError{FolderID: id, TargetID: newParentID}
			}
		}
	}
	f.ParentID = newParentID
	f.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFolder(f)
}

// MoveDocument files a document under targetFolderID; empty means root.
// Documents cannot contain folders, so no cycle check is needed.
func (svc *Service) MoveDocument(docID, targetFolderID string) (document.Document, error) {
	if targetFolderID != "" {
		if _, err := svc.repo.GetFolderByID(targetFolderID); err != nil {
			return document.Document{}, err
		}
	}
	return svc.docSvc.SetFolder(docID, targetFolderID)
}

// Descendants returns the ids of every folder transitively contained in id.
// The traversal keeps a visited set as a guard against cycles introduced by
// bulk data import.
func (svc *Service) Descendants(id string) ([]string, error) {
	all, err := svc.repo.QueryAllFolders()
	if err != nil {
		return nil, err
	}
	children := make(map[string][]string, len(all))
	for _, f := range all {
		if f.ParentID != "" {
			children[f.ParentID] = append(children[f.ParentID], f.ID)
		}
	}

	var desc []string
	visited := map[string]bool{id: true}
	queue := append([]string(nil), children[id]...)
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if visited[curr] {
			continue
		}
		visited[curr] = true
		desc = append(desc, curr)
		queue = append(queue, children[curr]...)
	}
	return desc, nil
}

// Delete removes the folder. Documents are never deleted with it: every
// document directly in the folder moves to root. When reparentContents is
// true the folder's direct child folders move to root as well, keeping their
// own subtrees intact (shallow, one-level reparenting). When false the whole
// folder subtree is deleted, and every document anywhere in it moves to root
// first.
func (svc *Service) Delete(id string, reparentContents bool) error {
	if _, err := svc.repo.GetFolderByID(id); err != nil {
		return err
	}

	doomed := []string{id}
	scope := []string{id}
	if reparentContents {
		all, err := svc.repo.QueryAllFolders()
		if err != nil {
			return err
		}
		for _, f := range all {
			if f.ParentID == id {
				f.ParentID = ""
				f.UpdatedAt = time.Now().UTC()
				if _, err = svc.repo.UpdateFolder(f); err != nil {
					return err
				}
			}
		}
	} else {
		desc, err := svc.Descendants(id)
		if err != nil {
			return err
		}
		doomed = append(doomed, desc...)
		scope = doomed
	}

	// orphaned documents move to root
	for _, fid := range scope {
		fid := fid
		docs, err := svc.docSvc.Filter(document.QueryFilter{FolderID: &fid})
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if _, err = svc.docSvc.SetFolder(doc.ID, ""); err != nil {
				return err
			}
		}
	}

	return svc.repo.DeleteFoldersByID(doomed...)
}

// ListQuery narrows a combined folder/document listing.
type ListQuery struct {
	FolderID   *string          `query:"folder_id"` // nil: everything; empty: root scope
	Search     string           `query:"search"`
	Tags       []string         `query:"tag"`
	SortBy     document.SortKey `query:"sort"`
	Descending bool             `query:"desc"`
}

// List builds the organizer view for one folder scope: child folders sorted
// alphabetically, documents filtered and sorted by the selected key, plus
// tag facets over the filtered documents.
func (svc *Service) List(q ListQuery) (Listing, error) {
	all, err := svc.repo.QueryAllFolders()
	if err != nil {
		return Listing{}, err
	}
	folders := make([]Folder, 0, len(all))
	for _, f := range all {
		if q.FolderID == nil || f.ParentID == *q.FolderID {
			folders = append(folders, f)
		}
	}
	sort.Slice(folders, func(i, j int) bool {
		return strings.ToLower(folders[i].Name) < strings.ToLower(folders[j].Name)
	})

	filter := document.QueryFilter{
		Search:     q.Search,
		Tags:       q.Tags,
		FolderID:   q.FolderID,
		SortBy:     q.SortBy,
		Descending: q.Descending,
	}
	docs, err := svc.docSvc.Filter(filter)
	if err != nil {
		return Listing{}, err
	}
	facets := make(map[string]int)
	for _, doc := range docs {
		for _, tag := range doc.Tags {
			facets[tag]++
		}
	}
	return Listing{Folders: folders, Documents: docs, TagFacets: facets}, nil
}
