package document

import (
	"sync"
	"time"

	"github.com/trezcool/daftari/core"
)

// Persister is the external persistence collaborator. Saves are best-effort
// and fire-and-forget; the editing core never blocks on them.
type Persister interface {
	SaveDocument(doc Document) error
	LoadDocument(id string) (Document, error)
}

// Autosaver subscribes to a document Service and hands each mutated document
// to the Persister once it has been quiet for the debounce delay.
// Reconciliation is last-write-wins; no merge logic exists here.
type Autosaver struct {
	store Persister
	log   core.Logger
	delay time.Duration

	svc   *Service
	token int

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func NewAutosaver(svc *Service, store Persister, log core.Logger, delay time.Duration) *Autosaver {
	a := &Autosaver{
		store:   store,
		log:     log,
		delay:   delay,
		svc:     svc,
		pending: make(map[string]*time.Timer),
	}
	a.token = svc.Subscribe(a.schedule)
	return a
}

func (a *Autosaver) schedule(doc Document, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if timer, ok := a.pending[doc.ID]; ok {
		timer.Stop()
	}
	a.pending[doc.ID] = time.AfterFunc(a.delay, func() { a.flush(doc.ID) })
}

func (a *Autosaver) flush(docID string) {
	a.mu.Lock()
	delete(a.pending, docID)
	a.mu.Unlock()

	doc, err := a.svc.GetByID(docID)
	if err != nil {
		if err != ErrNotFound {
			a.log.Warn("autosave: loading document", err)
		}
		return
	}
	if err := a.store.SaveDocument(doc); err != nil {
		a.log.Warn("autosave: saving document "+docID, err)
	}
}

// Stop unsubscribes and cancels pending saves without flushing them.
func (a *Autosaver) Stop() {
	a.svc.Unsubscribe(a.token)
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, timer := range a.pending {
		timer.Stop()
		delete(a.pending, id)
	}
}
