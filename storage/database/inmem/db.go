// Package inmemdb is the in-memory storage backend. It is the session store
// of a live editing session and the backend the test suites run against.
package inmemdb

import (
	"sync"

	"github.com/trezcool/daftari/core/document"
	"github.com/trezcool/daftari/core/folder"
)

type (
	DB struct {
		document *documentTable
		folder   *folderTable
	}

	documentTable struct {
		t     map[string]*document.Document
		mutex sync.RWMutex
	}

	folderTable struct {
		t     map[string]*folder.Folder
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		document: &documentTable{t: make(map[string]*document.Document)},
		folder:   &folderTable{t: make(map[string]*folder.Folder)},
	}
	return db, nil
}
