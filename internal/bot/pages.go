package bot

import "sync"

// pageMemory remembers each user's last-viewed page of the quiz listing so
// a deletion can re-render the same page. It is a UI convenience only: the
// page content itself is recomputed from storage on every request.
type pageMemory struct {
	mu    sync.Mutex
	pages map[int64]int
}

func newPageMemory() *pageMemory {
	return &pageMemory{pages: make(map[int64]int)}
}

func (p *pageMemory) Get(userID int64) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pages[userID]
}

func (p *pageMemory) Set(userID int64, index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages[userID] = index
}
