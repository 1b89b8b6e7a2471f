package sqlstore

import "tagtime/internal/domain"

// Repositories groups the repositories sharing one Store. Session and tag writes delegate
// their link cascades to the link repository inside the same transaction, and the link
// repository hydrates intersection results through the session repository.
type Repositories struct {
	Tags     domain.TagRepository
	Sessions domain.SessionRepository
	Links    domain.SessionTagRepository
	Stats    domain.StatsRepository
}

type repos struct {
	tags     *tagRepository
	sessions *sessionRepository
	links    *sessionTagRepository
	stats    *statsRepository
}

func newRepos(s *Store) *repos {
	r := &repos{
		tags:     &tagRepository{store: s},
		sessions: &sessionRepository{store: s},
		links:    &sessionTagRepository{store: s},
		stats:    &statsRepository{store: s},
	}
	r.tags.links = r.links
	r.sessions.links = r.links
	r.links.sessions = r.sessions
	r.stats.links = r.links
	return r
}

// NewRepositories builds every repository on top of s.
func NewRepositories(s *Store) *Repositories {
	r := newRepos(s)
	return &Repositories{
		Tags:     r.tags,
		Sessions: r.sessions,
		Links:    r.links,
		Stats:    r.stats,
	}
}

// NewTagRepository returns a domain.TagRepository backed by s.
func NewTagRepository(s *Store) domain.TagRepository {
	return newRepos(s).tags
}

// NewSessionRepository returns a domain.SessionRepository backed by s.
func NewSessionRepository(s *Store) domain.SessionRepository {
	return newRepos(s).sessions
}

// NewSessionTagRepository returns a domain.SessionTagRepository backed by s.
func NewSessionTagRepository(s *Store) domain.SessionTagRepository {
	return newRepos(s).links
}

// NewStatsRepository returns a domain.StatsRepository backed by s.
func NewStatsRepository(s *Store) domain.StatsRepository {
	return newRepos(s).stats
}

// distinctIDs drops repeated IDs, keeping first-seen order.
func distinctIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
