// Package sqlxrepos implements the persistence repositories on postgres via
// sqlx. Blocks are stored as a JSONB column, tags as text[].
package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/document"
)

type documentRow struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	Blocks    []byte         `db:"blocks"`
	Tags      pq.StringArray `db:"tags"`
	FolderID  null.String    `db:"folder_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type documentRepository struct {
	db *sqlx.DB
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check
var _ document.Persister = (*documentRepository)(nil)

func NewDocumentRepository(db *sql.DB, driverName string) *documentRepository {
	return &documentRepository{db: sqlx.NewDb(db, driverName)}
}

func (repo *documentRepository) row(doc document.Document) (documentRow, error) {
	blocks, err := json.Marshal(doc.Blocks)
	if err != nil {
		return documentRow{}, errors.Wrap(err, "marshalling blocks")
	}
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return documentRow{
		ID:        doc.ID,
		Title:     doc.Title,
		Blocks:    blocks,
		Tags:      pq.StringArray(tags),
		FolderID:  null.NewString(doc.FolderID, doc.FolderID != ""),
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}, nil
}

func (repo *documentRepository) unrow(row documentRow) (document.Document, error) {
	var blocks []document.Block
	if err := json.Unmarshal(row.Blocks, &blocks); err != nil {
		return document.Document{}, errors.Wrap(err, "unmarshalling blocks")
	}
	var tags []string
	if len(row.Tags) > 0 {
		tags = []string(row.Tags)
	}
	return document.Document{
		ID:        row.ID,
		Title:     row.Title,
		Blocks:    blocks,
		Tags:      tags,
		FolderID:  row.FolderID.String,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}, nil
}

func (repo *documentRepository) unrowSlice(rows []documentRow) ([]document.Document, error) {
	docs := make([]document.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := repo.unrow(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// trapNoRowsErr maps psql "no rows" err to document.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return document.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *documentRepository) CreateDocument(doc document.Document) (document.Document, error) {
	if doc.ID == "" {
		doc.ID = newID()
	}
	row, err := repo.row(doc)
	if err != nil {
		return document.Document{}, err
	}
	_, err = repo.db.NamedExec(
		`INSERT INTO document (id, title, blocks, tags, folder_id, created_at, updated_at)
		 VALUES (:id, :title, :blocks, :tags, :folder_id, :created_at, :updated_at)`, row)
	if err != nil {
		return document.Document{}, errors.Wrap(err, "inserting document")
	}
	return doc, nil
}

func (repo *documentRepository) GetDocumentByID(id string) (document.Document, error) {
	var row documentRow
	if err := repo.db.Get(&row, "SELECT * FROM document WHERE id = $1", id); err != nil {
		return document.Document{}, trapNoRowsErr(err, "finding document by ID")
	}
	return repo.unrow(row)
}

func (repo *documentRepository) QueryAllDocuments() ([]document.Document, error) {
	var rows []documentRow
	if err := repo.db.Select(&rows, "SELECT * FROM document"); err != nil {
		return nil, errors.Wrap(err, "querying documents")
	}
	return repo.unrowSlice(rows)
}

func (repo *documentRepository) FilterDocuments(filter document.QueryFilter) ([]document.Document, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, "title ILIKE $"+itoa(len(args)))
	}
	if len(filter.Tags) > 0 {
		args = append(args, pq.StringArray(filter.Tags))
		where = append(where, "tags @> $"+itoa(len(args)))
	}
	if filter.FolderID != nil {
		if *filter.FolderID == "" {
			where = append(where, "folder_id IS NULL")
		} else {
			args = append(args, *filter.FolderID)
			where = append(where, "folder_id = $"+itoa(len(args)))
		}
	}

	query := "SELECT * FROM document"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderClause(filter.SortBy, filter.Descending)

	var rows []documentRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering documents")
	}
	return repo.unrowSlice(rows)
}

func (repo *documentRepository) UpdateDocument(doc document.Document) (document.Document, error) {
	row, err := repo.row(doc)
	if err != nil {
		return document.Document{}, err
	}
	res, err := repo.db.NamedExec(
		`UPDATE document
		 SET title = :title, blocks = :blocks, tags = :tags, folder_id = :folder_id, updated_at = :updated_at
		 WHERE id = :id`, row)
	if err != nil {
		return document.Document{}, errors.Wrap(err, "updating document")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return document.Document{}, document.ErrNotFound
	}
	return doc, nil
}

func (repo *documentRepository) DeleteDocumentsByID(ids ...string) error {
	res, err := repo.db.Exec("DELETE FROM document WHERE id = ANY($1)", pq.StringArray(ids))
	if err != nil {
		return errors.Wrap(err, "deleting documents")
	}
	if n, _ := res.RowsAffected(); int(n) != len(ids) {
		return document.ErrNotFound
	}
	return nil
}

// Persister

func (repo *documentRepository) SaveDocument(doc document.Document) error {
	row, err := repo.row(doc)
	if err != nil {
		return err
	}
	_, err = repo.db.NamedExec(
		`INSERT INTO document (id, title, blocks, tags, folder_id, created_at, updated_at)
		 VALUES (:id, :title, :blocks, :tags, :folder_id, :created_at, :updated_at)
		 ON CONFLICT (id) DO UPDATE
		 SET title = EXCLUDED.title, blocks = EXCLUDED.blocks, tags = EXCLUDED.tags,
		     folder_id = EXCLUDED.folder_id, updated_at = EXCLUDED.updated_at`, row)
	return errors.Wrap(err, "saving document")
}

func (repo *documentRepository) LoadDocument(id string) (document.Document, error) {
	return repo.GetDocumentByID(id)
}

func orderClause(key document.SortKey, descending bool) string {
	ord := core.DBOrdering{Ascending: !descending}
	switch key {
	case document.SortByCreated:
		ord.Field = "created_at"
	case document.SortByModified:
		ord.Field = "updated_at"
	case document.SortBySubject:
		// primary tag; untagged documents last
		ord.Field = "lower(tags[1])"
		return ord.String() + " NULLS LAST, lower(title) ASC"
	default:
		ord.Field = "lower(title)"
	}
	return ord.String()
}
