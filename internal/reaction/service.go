package reaction

import (
	"context"
	"errors"

	"linkup/internal/common"
	"linkup/internal/dbmysql"
)

var ErrInvalidSubject = errors.New("subject type must be post or comment")

// Entry is one (emoji, user) pair on a subject.
type Entry struct {
	Emoji  string `json:"emoji"`
	UserID string `json:"user_id"`
}

// ListResult is the read contract: the pairs plus a lookup table of
// reactor profile summaries, both non-nil even when empty.
type ListResult struct {
	Reactions []Entry                          `json:"reactions"`
	Profiles  map[string]common.ProfileSummary `json:"profiles"`
}

type Service interface {
	// Toggle returns true when the call left the user with a reaction
	// ("added"), false when it removed one ("removed").
	Toggle(ctx context.Context, subjectType common.SubjectType, subjectID, userID, emoji string) (bool, error)
	List(ctx context.Context, subjectType common.SubjectType, subjectID string) (*ListResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Toggle maps one call onto exactly one of three outcomes: no prior
// reaction -> insert; same emoji -> delete; different emoji -> delete
// then insert. The replace path is two sequential statements, not a
// transaction: a crash between them leaves the user with zero
// reactions, which is accepted over paying for a store round trip that
// the single-emoji invariant already survives.
func (s *service) Toggle(ctx context.Context, subjectType common.SubjectType, subjectID, userID, emoji string) (bool, error) {
	if !subjectType.Valid() {
		return false, ErrInvalidSubject
	}

	existing, err := s.repo.BySubjectAndUser(ctx, string(subjectType), subjectID, userID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return false, err
		}
		if existing.Emoji == emoji {
			return false, nil // toggle-off
		}
	}

	reaction := &dbmysql.Reaction{
		SubjectType: string(subjectType),
		SubjectID:   subjectID,
		UserID:      userID,
		Emoji:       emoji,
	}
	if err := s.repo.Create(ctx, reaction); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) List(ctx context.Context, subjectType common.SubjectType, subjectID string) (*ListResult, error) {
	if !subjectType.Valid() {
		return nil, ErrInvalidSubject
	}

	reactions, err := s.repo.ListBySubject(ctx, string(subjectType), subjectID)
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Reactions: make([]Entry, 0, len(reactions)),
		Profiles:  make(map[string]common.ProfileSummary),
	}

	seen := make(map[string]bool)
	reactorIDs := make([]string, 0, len(reactions))
	for _, r := range reactions {
		result.Reactions = append(result.Reactions, Entry{Emoji: r.Emoji, UserID: r.UserID})
		if !seen[r.UserID] {
			seen[r.UserID] = true
			reactorIDs = append(reactorIDs, r.UserID)
		}
	}

	// one batched lookup over the distinct reactors, never one per row
	profiles, err := s.repo.ProfilesByIDs(ctx, reactorIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		result.Profiles[p.ID] = common.ProfileSummary{
			ID:          p.ID,
			Username:    p.Username,
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
		}
	}

	return result, nil
}
