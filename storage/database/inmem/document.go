package inmemdb

import (
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/daftari/core/document"
)

type documentRepository struct {
	db *documentTable
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check
var _ document.Persister = (*documentRepository)(nil)

func NewDocumentRepository(db *DB) *documentRepository {
	return &documentRepository{db: db.document}
}

// documents are stored and returned as deep copies so that no caller ever
// observes a partially applied mutation.
func (r *documentRepository) CreateDocument(doc document.Document) (document.Document, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	stored := doc.Clone()
	r.db.t[doc.ID] = &stored
	return doc, nil
}

func (r *documentRepository) GetDocumentByID(id string) (document.Document, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if doc, ok := r.db.t[id]; ok {
		return doc.Clone(), nil
	}
	return document.Document{}, document.ErrNotFound
}

func (r *documentRepository) QueryAllDocuments() ([]document.Document, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(), nil
}

func (r *documentRepository) FilterDocuments(filter document.QueryFilter) ([]document.Document, error) {
	r.db.mutex.RLock()
	docs := r.query()
	r.db.mutex.RUnlock()

	res := docs[:0]
	search := strings.ToLower(filter.Search)
	for _, doc := range docs {
		if search != "" && !strings.Contains(strings.ToLower(doc.Title), search) {
			continue
		}
		if len(filter.Tags) > 0 && !doc.HasTags(filter.Tags) {
			continue
		}
		if filter.FolderID != nil && doc.FolderID != *filter.FolderID {
			continue
		}
		res = append(res, doc)
	}
	document.SortDocuments(res, filter.SortBy, filter.Descending)
	return res, nil
}

func (r *documentRepository) UpdateDocument(doc document.Document) (document.Document, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.t[doc.ID]; !ok {
		return document.Document{}, document.ErrNotFound
	}
	stored := doc.Clone()
	r.db.t[doc.ID] = &stored
	return doc, nil
}

func (r *documentRepository) DeleteDocumentsByID(ids ...string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, id := range ids {
		if _, ok := r.db.t[id]; !ok {
			return document.ErrNotFound
		}
	}
	for _, id := range ids {
		delete(r.db.t, id)
	}
	return nil
}

// Persister

func (r *documentRepository) SaveDocument(doc document.Document) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	stored := doc.Clone()
	r.db.t[doc.ID] = &stored
	return nil
}

func (r *documentRepository) LoadDocument(id string) (document.Document, error) {
	return r.GetDocumentByID(id)
}

func (r *documentRepository) query() []document.Document {
	res := make([]document.Document, 0, len(r.db.t))
	for _, doc := range r.db.t {
		res = append(res, doc.Clone())
	}
	return res
}
