package source

import (
	"sort"
	"sync"
	"time"
)

// Store is the keyed snapshot of everything fetched so far. Entities are keyed
// by type and id, terms by taxonomy and id, route data by normalized link.
type Store struct {
	mu       sync.RWMutex
	entities map[string]map[int]Entity
	terms    map[string]map[int]Term
	routes   map[string]RouteData
}

// NewStore returns an empty Store.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset drops every entity, term and route.
func (s *Store) Reset() {
	s.mu.Lock()
	s.entities = make(map[string]map[int]Entity)
	s.terms = make(map[string]map[int]Term)
	s.routes = make(map[string]RouteData)
	s.mu.Unlock()
}

// Route returns the route data for link.
func (s *Store) Route(link string) (RouteData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.routes[NormalizeLink(link)]
	return d, ok
}

// SetRoute records route data under its normalized link.
func (s *Store) SetRoute(d RouteData) {
	d.Link = NormalizeLink(d.Link)
	s.mu.Lock()
	s.routes[d.Link] = d
	s.mu.Unlock()
}

// DeleteRoute forgets the route data for link.
func (s *Store) DeleteRoute(link string) {
	s.mu.Lock()
	delete(s.routes, NormalizeLink(link))
	s.mu.Unlock()
}

// EvictRoutes drops ready routes fetched before cutoff, then the oldest ready
// routes until at most limit remain. A zero cutoff or limit disables that
// step. Routes still loading are kept. It returns the number removed.
func (s *Store) EvictRoutes(cutoff time.Time, limit int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	if !cutoff.IsZero() {
		for link, d := range s.routes {
			if d.IsReady && d.FetchedAt.Before(cutoff) {
				delete(s.routes, link)
				removed++
			}
		}
	}
	if limit <= 0 || len(s.routes) <= limit {
		return removed
	}

	ready := make([]RouteData, 0, len(s.routes))
	for _, d := range s.routes {
		if d.IsReady {
			ready = append(ready, d)
		}
	}
	sort.Slice(ready, func(i, j int) bool {
		return ready[i].FetchedAt.Before(ready[j].FetchedAt)
	})
	for _, d := range ready {
		if len(s.routes) <= limit {
			break
		}
		delete(s.routes, d.Link)
		removed++
	}
	return removed
}

// RouteCount returns the number of stored routes.
func (s *Store) RouteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.routes)
}

// Entity returns the entity of the given type and id.
func (s *Store) Entity(typ string, id int) (Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[typ][id]
	return e, ok
}

// Term returns the term of the given taxonomy and id.
func (s *Store) Term(taxonomy string, id int) (Term, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.terms[normalizeTaxonomy(taxonomy)][id]
	return t, ok
}

// TermBySlug finds a stored term by slug.
func (s *Store) TermBySlug(taxonomy, slug string) (Term, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.terms[normalizeTaxonomy(taxonomy)] {
		if t.Slug == slug {
			return t, true
		}
	}
	return Term{}, false
}

// PutEntity stores e along with any featured media and terms embedded in it.
// The embedded block itself is not kept.
func (s *Store) PutEntity(e Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putEntityLocked(e)
}

func (s *Store) putEntityLocked(e Entity) {
	if e.Embedded != nil {
		for _, m := range e.Embedded.FeaturedMedia {
			// Forbidden or deleted media embed as error objects without an id.
			if m.ID != 0 {
				s.putEntityLocked(m)
			}
		}
		for _, group := range e.Embedded.Terms {
			for _, t := range group {
				s.putTermLocked(t)
			}
		}
		e.Embedded = nil
	}
	if e.ID == 0 || e.Type == "" {
		return
	}
	byID, ok := s.entities[e.Type]
	if !ok {
		byID = make(map[int]Entity)
		s.entities[e.Type] = byID
	}
	byID[e.ID] = e
}

// PutTerm stores t under its normalized taxonomy.
func (s *Store) PutTerm(t Term) {
	s.mu.Lock()
	s.putTermLocked(t)
	s.mu.Unlock()
}

func (s *Store) putTermLocked(t Term) {
	if t.ID == 0 {
		return
	}
	t.Taxonomy = normalizeTaxonomy(t.Taxonomy)
	byID, ok := s.terms[t.Taxonomy]
	if !ok {
		byID = make(map[int]Term)
		s.terms[t.Taxonomy] = byID
	}
	byID[t.ID] = t
}

// Stats reports how many entities, terms and routes are stored.
func (s *Store) Stats() (entities, terms, routes int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, byID := range s.entities {
		entities += len(byID)
	}
	for _, byID := range s.terms {
		terms += len(byID)
	}
	return entities, terms, len(s.routes)
}

func normalizeTaxonomy(taxonomy string) string {
	if taxonomy == "post_tag" {
		return TaxonomyTag
	}
	return taxonomy
}
