package inmemdb

import (
	"github.com/google/uuid"

	"github.com/trezcool/daftari/core/folder"
)

type folderRepository struct {
	db *folderTable
}

var _ folder.Repository = (*folderRepository)(nil) // interface compliance check

func NewFolderRepository(db *DB) *folderRepository {
	return &folderRepository{db: db.folder}
}

func (r *folderRepository) CreateFolder(f folder.Folder) (folder.Folder, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	stored := f
	r.db.t[f.ID] = &stored
	return f, nil
}

func (r *folderRepository) GetFolderByID(id string) (folder.Folder, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if f, ok := r.db.t[id]; ok {
		return *f, nil
	}
	return folder.Folder{}, folder.ErrNotFound
}

func (r *folderRepository) QueryAllFolders() ([]folder.Folder, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]folder.Folder, 0, len(r.db.t))
	for _, f := range r.db.t {
		res = append(res, *f)
	}
	return res, nil
}

func (r *folderRepository) UpdateFolder(f folder.Folder) (folder.Folder, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.t[f.ID]; !ok {
		return folder.Folder{}, folder.ErrNotFound
	}
	stored := f
	r.db.t[f.ID] = &stored
	return f, nil
}

func (r *folderRepository) DeleteFoldersByID(ids ...string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, id := range ids {
		if _, ok := r.db.t[id]; !ok {
			return folder.ErrNotFound
		}
	}
	for _, id := range ids {
		delete(r.db.t, id)
	}
	return nil
}
