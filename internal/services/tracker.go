package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tagtime/internal/domain"
)

type trackerService struct {
	tagRepo        domain.TagRepository
	sessionRepo    domain.SessionRepository
	linkRepo       domain.SessionTagRepository
	statsRepo      domain.StatsRepository
	logger         *slog.Logger
	now            domain.Clock
	contextTimeout time.Duration
}

func NewTrackerService(tagRepo domain.TagRepository,
	sessionRepo domain.SessionRepository,
	linkRepo domain.SessionTagRepository,
	statsRepo domain.StatsRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.TrackerService {
	return &trackerService{
		tagRepo:        tagRepo,
		sessionRepo:    sessionRepo,
		linkRepo:       linkRepo,
		statsRepo:      statsRepo,
		logger:         logger,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *trackerService) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	id, err := s.tagRepo.Create(ctx, name)
	if err != nil {
		s.logger.ErrorContext(ctx, "create tag failed", "err", err)
		return nil, fmt.Errorf("create tag: %w", err)
	}
	if id == domain.NoID {
		return nil, domain.ErrEmptyTagName
	}
	return &domain.Tag{ID: id, Name: name}, nil
}

func (s *trackerService) RenameTag(ctx context.Context, id int64, name string) (*domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyTagName
	}
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	tag.Name = name
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		s.logger.ErrorContext(ctx, "rename tag failed", "tag_id", id, "err", err)
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return tag, nil
}

// DeleteTag removes the tag and, in the same write, every link to it.
func (s *trackerService) DeleteTag(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.tagRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get tag: %w", err)
	}
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "delete tag failed", "tag_id", id, "err", err)
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

func (s *trackerService) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

func (s *trackerService) ListTags(ctx context.Context, p domain.PaginationParams) ([]*domain.Tag, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tags, err := s.tagRepo.ListPage(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list tags: %w", err)
	}
	total, err := s.tagRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", err)
	}
	return tags, total, nil
}

func (s *trackerService) CreateSession(ctx context.Context, in domain.SessionInput) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	session := domain.NewSession(in.Duration, in.Date, tags)
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		if isInvariantError(err) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "create session failed", "err", err)
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s.reload(ctx, session.ID)
}

// UpdateSession overwrites the session fields and replaces its tag links.
func (s *trackerService) UpdateSession(ctx context.Context, id int64, in domain.SessionInput) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.sessionRepo.GetDataByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	session := domain.NewSession(in.Duration, in.Date, tags)
	session.ID = id
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		if isInvariantError(err) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "update session failed", "session_id", id, "err", err)
		return nil, fmt.Errorf("update session: %w", err)
	}
	return s.reload(ctx, id)
}

func (s *trackerService) DeleteSession(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.sessionRepo.GetDataByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get session: %w", err)
	}
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "delete session failed", "session_id", id, "err", err)
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *trackerService) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.reload(ctx, id)
}

func (s *trackerService) ListSessions(ctx context.Context, tagIDs []int64, p domain.PaginationParams) ([]*domain.Session, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sessions, err := s.linkRepo.SessionsMatchingTagsPage(ctx, tagIDs, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	total, err := s.linkRepo.CountSessionsMatchingTags(ctx, tagIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}
	return sessions, total, nil
}

func (s *trackerService) TotalDuration(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	total, err := s.statsRepo.TotalDuration(ctx)
	if err != nil {
		return 0, fmt.Errorf("total duration: %w", err)
	}
	return total, nil
}

func (s *trackerService) DurationForTag(ctx context.Context, tagID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.tagRepo.GetByID(ctx, tagID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get tag: %w", err)
	}
	total, err := s.statsRepo.DurationForTag(ctx, tagID)
	if err != nil {
		return 0, fmt.Errorf("duration for tag: %w", err)
	}
	return total, nil
}

func (s *trackerService) RankTags(ctx context.Context, p domain.PaginationParams) ([]*domain.TagDuration, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ranked, err := s.statsRepo.TagsByDurationPage(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("rank tags: %w", err)
	}
	total, err := s.statsRepo.CountRankedTags(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count ranked tags: %w", err)
	}
	return ranked, total, nil
}

// DurationForSessions sums the sessions linked to every tag in tagIDs. An open From starts
// at the zero time; an open To ends today, since no session may be dated later.
func (s *trackerService) DurationForSessions(ctx context.Context, tagIDs []int64, r domain.DateRange) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if r.From == nil && r.To == nil {
		total, err := s.statsRepo.DurationForSessionsWithTags(ctx, tagIDs)
		if err != nil {
			return 0, fmt.Errorf("duration for sessions: %w", err)
		}
		return total, nil
	}
	var start time.Time
	end := domain.EndOfDay(s.now())
	if r.From != nil {
		start = *r.From
	}
	if r.To != nil {
		end = *r.To
	}
	if end.Before(start) {
		return 0, domain.ErrInvalidRange
	}
	total, err := s.statsRepo.DurationForSessionsWithTagsInRange(ctx, tagIDs, start, end)
	if err != nil {
		return 0, fmt.Errorf("duration for sessions in range: %w", err)
	}
	return total, nil
}

// resolveTags loads each distinct tag ID, failing with ErrUnknownTag on the first miss.
func (s *trackerService) resolveTags(ctx context.Context, ids []int64) ([]*domain.Tag, error) {
	seen := make(map[int64]struct{}, len(ids))
	tags := make([]*domain.Tag, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		tag, err := s.tagRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("tag %d: %w", id, domain.ErrUnknownTag)
			}
			return nil, fmt.Errorf("get tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *trackerService) reload(ctx context.Context, id int64) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func isInvariantError(err error) bool {
	return errors.Is(err, domain.ErrInvalidDuration) || errors.Is(err, domain.ErrFutureDate)
}
