// File: alloc/freelist.go
// Author: momentics <momentics@gmail.com>
//
// Free list of carved native pages. Strictly last-in-first-out: the most
// recently freed page is the next one handed out.

package alloc

// pageStack is a plain slice stack. Once warmed it reuses its backing
// array, so the page alloc/free cycle stays allocation-free.
type pageStack struct {
	pages [][]byte
}

func (s *pageStack) push(p []byte) {
	s.pages = append(s.pages, p)
}

func (s *pageStack) pop() ([]byte, bool) {
	n := len(s.pages)
	if n == 0 {
		return nil, false
	}
	p := s.pages[n-1]
	s.pages[n-1] = nil
	s.pages = s.pages[:n-1]
	return p, true
}

func (s *pageStack) len() int {
	return len(s.pages)
}

func (s *pageStack) reset() {
	s.pages = nil
}
