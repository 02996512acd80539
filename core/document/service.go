package document

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/daftari/core"
)

var (
	// errors
	ErrNotFound      = errors.New("document not found")
	ErrBlockNotFound = errors.New("block not found")
	ErrUnknownType   = errors.New("unknown block type")
)

// SortKey selects the ordering of a document listing.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByCreated  SortKey = "dateCreated"
	SortByModified SortKey = "dateModified"
	SortBySubject  SortKey = "subject" // primary tag; untagged documents last
)

type (
	// QueryFilter narrows and orders a document listing.
	// Search does a case-insensitive match on Document.Title; Tags applies
	// intersection semantics (a document must carry every selected tag).
	QueryFilter struct {
		Search     string   `query:"search"`
		Tags       []string `query:"tag"`
		FolderID   *string  `query:"folder_id"` // nil: any; empty: root only
		SortBy     SortKey  `query:"sort"`
		Descending bool     `query:"desc"`
	}

	Repository interface {
		CreateDocument(doc Document) (Document, error)
		GetDocumentByID(id string) (Document, error)
		QueryAllDocuments() ([]Document, error)
		// FilterDocuments applies AND operation on available QueryFilter fields.
		FilterDocuments(filter QueryFilter) ([]Document, error)
		UpdateDocument(doc Document) (Document, error)
		DeleteDocumentsByID(ids ...string) error
	}

	// ChangeHandler receives the updated document and the id of the block
	// that changed ("" for document-level changes) after every successful
	// mutation, for minimal redraw.
	ChangeHandler func(doc Document, changedBlockID string)

	Service struct {
		repo Repository

		mu        sync.RWMutex
		subs      map[int]ChangeHandler
		nextToken int
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, subs: make(map[int]ChangeHandler)}
}

// Subscribe registers a change handler and returns a token for Unsubscribe.
func (svc *Service) Subscribe(h ChangeHandler) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.nextToken++
	svc.subs[svc.nextToken] = h
	return svc.nextToken
}

func (svc *Service) Unsubscribe(token int) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	delete(svc.subs, token)
}

func (svc *Service) notify(doc Document, blockID string) {
	svc.mu.RLock()
	handlers := make([]ChangeHandler, 0, len(svc.subs))
	for _, h := range svc.subs {
		handlers = append(handlers, h)
	}
	svc.mu.RUnlock()
	for _, h := range handlers {
		h(doc.Clone(), blockID)
	}
}

// NewBlock returns a fresh block of the given type with empty content and
// the type's default metadata.
func NewBlock(t BlockType) Block {
	return Block{
		ID:       uuid.New().String(),
		Type:     t,
		Metadata: DefaultMetadata(t),
	}
}

// Create makes a new Document holding a single empty paragraph block.
func (svc *Service) Create(nd NewDocument) (Document, error) {
	if err := nd.Validate(); err != nil {
		return Document{}, err
	}
	now := time.Now().UTC()
	doc := Document{
		Title:     nd.Title,
		Blocks:    []Block{NewBlock(TypeParagraph)},
		Tags:      nd.Tags,
		FolderID:  nd.FolderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc, err := svc.repo.CreateDocument(doc)
	if err != nil {
		return Document{}, err
	}
	svc.notify(doc, "")
	return doc, nil
}

func (svc *Service) QueryAll() ([]Document, error) {
	return svc.repo.QueryAllDocuments()
}

func (svc *Service) GetByID(id string) (Document, error) {
	return svc.repo.GetDocumentByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Document, error) {
	return svc.repo.FilterDocuments(filter)
}

// TagFacets counts the documents carrying each tag within the filtered scope.
func (svc *Service) TagFacets(filter QueryFilter) (map[string]int, error) {
	docs, err := svc.repo.FilterDocuments(filter)
	if err != nil {
		return nil, err
	}
	facets := make(map[string]int)
	for _, doc := range docs {
		for _, tag := range doc.Tags {
			facets[tag]++
		}
	}
	return facets, nil
}

// Update modifies document-level fields (title, tags, folder).
func (svc *Service) Update(id string, ud UpdateDocument) (Document, error) {
	if err := ud.Validate(); err != nil {
		return Document{}, err
	}
	doc, err := svc.repo.GetDocumentByID(id)
	if err != nil {
		return Document{}, err
	}
	if ud.Title != nil {
		doc.Title = *ud.Title
	}
	if ud.FolderID != nil {
		doc.FolderID = *ud.FolderID
	}
	if ud.Tags != nil {
		doc.Tags = *ud.Tags
	}
	return svc.save(doc, "")
}

// SetFolder reparents the document; empty folderID means root.
// Documents cannot contain folders, so no cycle is possible here.
func (svc *Service) SetFolder(id, folderID string) (Document, error) {
	doc, err := svc.repo.GetDocumentByID(id)
	if err != nil {
		return Document{}, err
	}
	doc.FolderID = folderID
	return svc.save(doc, "")
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteDocumentsByID(ids...)
}

// Duplicate clones a document under fresh ids.
func (svc *Service) Duplicate(id string) (Document, error) {
	doc, err := svc.repo.GetDocumentByID(id)
	if err != nil {
		return Document{}, err
	}
	dup := doc.Clone()
	dup.ID = ""
	dup.Title = doc.Title + " (copy)"
	now := time.Now().UTC()
	dup.CreatedAt = now
	dup.UpdatedAt = now
	for i := range dup.Blocks {
		dup.Blocks[i].ID = uuid.New().String()
	}
	dup, err = svc.repo.CreateDocument(dup)
	if err != nil {
		return Document{}, err
	}
	svc.notify(dup, "")
	return dup, nil
}

// Replace swaps the document's content (title, blocks, tags) for an imported
// one, keeping the id and creation time. Imported blocks must carry unique
// ids; an empty block list gets the usual fresh paragraph.
func (svc *Service) Replace(id string, imported Document) (Document, error) {
	seen := make(map[string]bool, len(imported.Blocks))
	for _, blk := range imported.Blocks {
		if blk.ID == "" || seen[blk.ID] || !ValidType(blk.Type) {
			return Document{}, core.NewValidationError(errors.New("invalid imported blocks"),
				core.FieldError{Field: "blocks", Error: "block ids must be unique and types known"})
		}
		seen[blk.ID] = true
	}
	doc, err := svc.repo.GetDocumentByID(id)
	if err != nil {
		return Document{}, err
	}
	doc.Title = imported.Title
	doc.Blocks = imported.Blocks
	doc.Tags = imported.Tags
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}
	if len(doc.Blocks) == 0 {
		doc.Blocks = []Block{NewBlock(TypeParagraph)}
	}
	return svc.save(doc, "")
}

// AddBlock inserts a new block of the given type; atIndex defaults to the
// end and is otherwise clamped to [0, len].
func (svc *Service) AddBlock(docID string, t BlockType, atIndex ...int) (Document, Block, error) {
	if !ValidType(t) {
		return Document{}, Block{}, core.NewValidationError(ErrUnknownType,
			core.FieldError{Field: "type", Error: ErrUnknownType.Error()})
	}
	doc, err := svc.repo.GetDocumentByID(docID)
	if err != nil {
		return Document{}, Block{}, err
	}

	idx := len(doc.Blocks)
	if len(atIndex) > 0 {
		idx = clamp(atIndex[0], 0, len(doc.Blocks))
	}
	blk := NewBlock(t)
	doc.Blocks = append(doc.Blocks, Block{})
	copy(doc.Blocks[idx+1:], doc.Blocks[idx:])
	doc.Blocks[idx] = blk

	doc, err = svc.save(doc, blk.ID)
	return doc, blk, err
}

// UpdateBlock replaces the block's content and shallow-merges the metadata
// patch; patch values overwrite.
func (svc *Service) UpdateBlock(docID, blockID, content string, metaPatch ...Metadata) (Document, error) {
	doc, idx, err := svc.getBlock(docID, blockID)
	if err != nil {
		return Document{}, err
	}
	blk := &doc.Blocks[idx]
	if !IsContentless(blk.Type) {
		blk.Content = content
	}
	if len(metaPatch) > 0 {
		blk.Metadata = blk.Metadata.Merge(metaPatch[0])
	}
	return svc.save(doc, blockID)
}

// DeleteBlock removes the block; a document is never left empty, so deleting
// the last remaining block inserts a fresh empty paragraph in its place.
func (svc *Service) DeleteBlock(docID, blockID string) (Document, error) {
	doc, idx, err := svc.getBlock(docID, blockID)
	if err != nil {
		return Document{}, err
	}
	doc.Blocks = append(doc.Blocks[:idx], doc.Blocks[idx+1:]...)
	changed := blockID
	if len(doc.Blocks) == 0 {
		blk := NewBlock(TypeParagraph)
		doc.Blocks = []Block{blk}
		changed = blk.ID
	}
	return svc.save(doc, changed)
}

// MoveBlock reorders the block to toIndex, clamped to [0, len-1].
func (svc *Service) MoveBlock(docID, blockID string, toIndex int) (Document, error) {
	doc, idx, err := svc.getBlock(docID, blockID)
	if err != nil {
		return Document{}, err
	}
	toIndex = clamp(toIndex, 0, len(doc.Blocks)-1)
	blk := doc.Blocks[idx]
	doc.Blocks = append(doc.Blocks[:idx], doc.Blocks[idx+1:]...)
	doc.Blocks = append(doc.Blocks, Block{})
	copy(doc.Blocks[toIndex+1:], doc.Blocks[toIndex:])
	doc.Blocks[toIndex] = blk
	return svc.save(doc, blockID)
}

// ConvertBlock changes the block's type. Content is preserved except when
// converting to or from a contentless kind (divider, image); metadata not
// relevant to the new type is dropped and missing defaults are filled in.
func (svc *Service) ConvertBlock(docID, blockID string, newType BlockType) (Document, error) {
	if !ValidType(newType) {
		return Document{}, core.NewValidationError(ErrUnknownType,
			core.FieldError{Field: "type", Error: ErrUnknownType.Error()})
	}
	doc, idx, err := svc.getBlock(docID, blockID)
	if err != nil {
		return Document{}, err
	}
	blk := &doc.Blocks[idx]
	if blk.Type == newType {
		return doc, nil // idempotent
	}
	if IsContentless(blk.Type) || IsContentless(newType) {
		blk.Content = ""
	}
	kept := make(Metadata)
	for _, key := range metadataKeys(newType) {
		if v, ok := blk.Metadata[key]; ok {
			kept[key] = v
		}
	}
	blk.Metadata = DefaultMetadata(newType).Merge(kept)
	if len(blk.Metadata) == 0 {
		blk.Metadata = nil
	}
	blk.Type = newType
	return svc.save(doc, blockID)
}

// DuplicateBlock clones the block under a new id, inserted right after it.
func (svc *Service) DuplicateBlock(docID, blockID string) (Document, Block, error) {
	doc, idx, err := svc.getBlock(docID, blockID)
	if err != nil {
		return Document{}, Block{}, err
	}
	dup := doc.Blocks[idx].Clone()
	dup.ID = uuid.New().String()
	doc.Blocks = append(doc.Blocks, Block{})
	copy(doc.Blocks[idx+2:], doc.Blocks[idx+1:])
	doc.Blocks[idx+1] = dup
	doc, err = svc.save(doc, dup.ID)
	return doc, dup, err
}

// ToggleChecked flips a checklist block's `checked` metadata; content is
// never touched.
func (svc *Service) ToggleChecked(docID, blockID string) (Document, error) {
	doc, idx, err := svc.getBlock(docID, blockID)
	if err != nil {
		return Document{}, err
	}
	blk := &doc.Blocks[idx]
	blk.Metadata = blk.Metadata.Merge(Metadata{MetaChecked: !blk.Checked()})
	return svc.save(doc, blockID)
}

// SetIndentLevel adjusts a list block's indent, clamped to [0, MaxIndentLevel].
func (svc *Service) SetIndentLevel(docID, blockID string, level int) (Document, error) {
	doc, idx, err := svc.getBlock(docID, blockID)
	if err != nil {
		return Document{}, err
	}
	blk := &doc.Blocks[idx]
	if !IsListType(blk.Type) {
		return doc, nil
	}
	blk.Metadata = blk.Metadata.Merge(Metadata{MetaIndentLevel: clamp(level, 0, MaxIndentLevel)})
	return svc.save(doc, blockID)
}

func (svc *Service) getBlock(docID, blockID string) (Document, int, error) {
	doc, err := svc.repo.GetDocumentByID(docID)
	if err != nil {
		return Document{}, 0, err
	}
	idx := doc.BlockIndex(blockID)
	if idx < 0 {
		return Document{}, 0, ErrBlockNotFound
	}
	return doc, idx, nil
}

func (svc *Service) save(doc Document, changedBlockID string) (Document, error) {
	doc.UpdatedAt = time.Now().UTC()
	doc, err := svc.repo.UpdateDocument(doc)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Document{}, err
		}
		// the session store is the live source of truth; a rejected write
		// means its state can no longer be trusted
		return Document{}, core.NewShutdownError("session store write failed: " + err.Error())
	}
	svc.notify(doc, changedBlockID)
	return doc, nil
}

func clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// SortDocuments orders docs in place by the given key; repositories without
// native ordering delegate to it.
func SortDocuments(docs []Document, key SortKey, descending bool) {
	less := func(a, b Document) bool {
		switch key {
		case SortByCreated:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortByModified:
			return a.UpdatedAt.Before(b.UpdatedAt)
		case SortBySubject:
			sa, sb := strings.ToLower(a.Subject()), strings.ToLower(b.Subject())
			if (sa == "") != (sb == "") {
				return sa != "" // untagged documents last
			}
			if sa != sb {
				return sa < sb
			}
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default: // SortByName
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if descending {
			return less(docs[j], docs[i])
		}
		return less(docs[i], docs[j])
	})
}
