package sqlxrepos

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/daftari/core/folder"
)

func newID() string { return uuid.New().String() }

func itoa(n int) string { return strconv.Itoa(n) }

type folderRow struct {
	ID        string      `db:"id"`
	Name      string      `db:"name"`
	Color     string      `db:"color"`
	ParentID  null.String `db:"parent_id"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

type folderRepository struct {
	db *sqlx.DB
}

var _ folder.Repository = (*folderRepository)(nil) // interface compliance check

func NewFolderRepository(db *sql.DB, driverName string) *folderRepository {
	return &folderRepository{db: sqlx.NewDb(db, driverName)}
}

func (repo *folderRepository) row(f folder.Folder) folderRow {
	return folderRow{
		ID:        f.ID,
		Name:      f.Name,
		Color:     f.Color,
		ParentID:  null.NewString(f.ParentID, f.ParentID != ""),
		CreatedAt: f.CreatedAt.UTC(),
		UpdatedAt: f.UpdatedAt.UTC(),
	}
}

func (repo *folderRepository) unrow(row folderRow) folder.Folder {
	return folder.Folder{
		ID:        row.ID,
		Name:      row.Name,
		Color:     row.Color,
		ParentID:  row.ParentID.String,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func trapFolderNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return folder.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *folderRepository) CreateFolder(f folder.Folder) (folder.Folder, error) {
	if f.ID == "" {
		f.ID = newID()
	}
	_, err := repo.db.NamedExec(
		`INSERT INTO folder (id, name, color, parent_id, created_at, updated_at)
		 VALUES (:id, :name, :color, :parent_id, :created_at, :updated_at)`, repo.row(f))
	if err != nil {
		return folder.Folder{}, errors.Wrap(err, "inserting folder")
	}
	return f, nil
}

func (repo *folderRepository) GetFolderByID(id string) (folder.Folder, error) {
	var row folderRow
	if err := repo.db.Get(&row, "SELECT * FROM folder WHERE id = $1", id); err != nil {
		return folder.Folder{}, trapFolderNoRowsErr(err, "finding folder by ID")
	}
	return repo.unrow(row), nil
}

func (repo *folderRepository) QueryAllFolders() ([]folder.Folder, error) {
	var rows []folderRow
	if err := repo.db.Select(&rows, "SELECT * FROM folder ORDER BY lower(name)"); err != nil {
		return nil, errors.Wrap(err, "querying folders")
	}
	folders := make([]folder.Folder, 0, len(rows))
	for _, row := range rows {
		folders = append(folders, repo.unrow(row))
	}
	return folders, nil
}

func (repo *folderRepository) UpdateFolder(f folder.Folder) (folder.Folder, error) {
	res, err := repo.db.NamedExec(
		`UPDATE folder
		 SET name = :name, color = :color, parent_id = :parent_id, updated_at = :updated_at
		 WHERE id = :id`, repo.row(f))
	if err != nil {
		return folder.Folder{}, errors.Wrap(err, "updating folder")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return folder.Folder{}, folder.ErrNotFound
	}
	return f, nil
}

func (repo *folderRepository) DeleteFoldersByID(ids ...string) error {
	res, err := repo.db.Exec("DELETE FROM folder WHERE id = ANY($1)", pq.StringArray(ids))
	if err != nil {
		return errors.Wrap(err, "deleting folders")
	}
	if n, _ := res.RowsAffected(); int(n) != len(ids) {
		return folder.ErrNotFound
	}
	return nil
}
