package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mdshamim125/contest-hub-server/internal/core"
)

var (
	_ core.UserStore    = (*MemoryUsers)(nil)
	_ core.ContestStore = (*MemoryContests)(nil)
)

// Memory bundles in-memory stores with the same semantics as the Mongo
// ones. The mutexes stand in for per-document atomicity: save-or-fetch
// and registration are single critical sections.
type Memory struct {
	Users    *MemoryUsers
	Contests *MemoryContests
}

func NewMemory() *Memory {
	return &Memory{
		Users:    &MemoryUsers{users: make(map[string]core.User)},
		Contests: &MemoryContests{},
	}
}

type MemoryUsers struct {
	mu    sync.Mutex
	users map[string]core.User
	order []string
}

func (s *MemoryUsers) SaveOrFetch(_ context.Context, user core.User) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[user.Email]; ok {
		return &existing, nil
	}

	user.Status = core.StatusActive
	user.Timestamp = time.Now()
	s.users[user.Email] = user
	s.order = append(s.order, user.Email)
	return &user, nil
}

func (s *MemoryUsers) Get(_ context.Context, email string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &user, nil
}

func (s *MemoryUsers) List(_ context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]core.User, 0, len(s.order))
	for _, email := range s.order {
		users = append(users, s.users[email])
	}
	return users, nil
}

func (s *MemoryUsers) Update(_ context.Context, email string, upd core.UserUpdate) (*core.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return &core.UpdateResult{}, nil
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.Status != nil {
		user.Status = *upd.Status
	}
	user.Timestamp = time.Now()
	s.users[email] = user

	return &core.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (s *MemoryUsers) Delete(_ context.Context, email string) (*core.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; !ok {
		return &core.DeleteResult{}, nil
	}
	delete(s.users, email)
	for i, e := range s.order {
		if e == email {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return &core.DeleteResult{DeletedCount: 1}, nil
}

type MemoryContests struct {
	mu       sync.Mutex
	contests []core.Contest
}

func (s *MemoryContests) Insert(_ context.Context, contest core.Contest) (*core.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contest.ID.IsZero() {
		contest.ID = bson.NewObjectID()
	}
	s.contests = append(s.contests, contest)
	return &core.InsertResult{InsertedID: contest.ID.Hex()}, nil
}

func (s *MemoryContests) Get(_ context.Context, id string) (*core.Contest, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(oid); i >= 0 {
		contest := s.contests[i]
		return &contest, nil
	}
	return nil, core.ErrNotFound
}

func (s *MemoryContests) List(_ context.Context, filter core.ContestFilter) ([]core.Contest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Contest
	for _, c := range s.contests {
		if filter.CreatorEmail != "" && c.Creator.Email != filter.CreatorEmail {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *MemoryContests) Update(_ context.Context, id string, upd core.ContestUpdate) (*core.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(oid)
	if i < 0 {
		return &core.UpdateResult{}, nil
	}

	c := &s.contests[i]
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Category != nil {
		c.Category = *upd.Category
	}
	if upd.Image != nil {
		c.Image = *upd.Image
	}
	if upd.Prize != nil {
		c.Prize = *upd.Prize
	}
	if upd.Price != nil {
		c.Price = *upd.Price
	}
	if upd.Deadline != nil {
		c.Deadline = *upd.Deadline
	}
	return &core.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (s *MemoryContests) Delete(_ context.Context, id string) (*core.DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(oid)
	if i < 0 {
		return &core.DeleteResult{}, nil
	}
	s.contests = append(s.contests[:i], s.contests[i+1:]...)
	return &core.DeleteResult{DeletedCount: 1}, nil
}

func (s *MemoryContests) Confirm(_ context.Context, id string) (*core.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(oid)
	if i < 0 {
		return &core.UpdateResult{}, nil
	}
	s.contests[i].Status = core.ContestConfirmed
	s.contests[i].Published = true
	return &core.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (s *MemoryContests) AddComment(_ context.Context, id string, comment string) (*core.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(oid)
	if i < 0 {
		return &core.UpdateResult{}, nil
	}
	s.contests[i].Comments = append(s.contests[i].Comments, comment)
	return &core.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

// Register checks for a duplicate and appends inside one critical
// section, matching the conditional-update semantics of the Mongo store.
func (s *MemoryContests) Register(_ context.Context, id string, p core.Participant) (*core.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(oid)
	if i < 0 {
		return nil, core.ErrNotFound
	}
	for _, existing := range s.contests[i].Participants {
		if existing.Email == p.Email {
			return nil, core.ErrAlreadyRegistered
		}
	}
	s.contests[i].Participants = append(s.contests[i].Participants, p)
	s.contests[i].ParticipantCount++
	return &core.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

// PopularCreators aggregates in insertion order with a stable sort, so
// tied creators keep their first-seen order.
func (s *MemoryContests) PopularCreators(_ context.Context, limit int) ([]core.CreatorRank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]*core.CreatorRank)
	var order []string
	for _, c := range s.contests {
		rank, ok := totals[c.Creator.Email]
		if !ok {
			rank = &core.CreatorRank{Email: c.Creator.Email, Name: c.Creator.Name}
			totals[c.Creator.Email] = rank
			order = append(order, c.Creator.Email)
		}
		rank.TotalParticipants += int64(len(c.Participants))
	}

	ranks := make([]core.CreatorRank, 0, len(order))
	for _, email := range order {
		ranks = append(ranks, *totals[email])
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].TotalParticipants > ranks[j].TotalParticipants
	})
	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks, nil
}

func (s *MemoryContests) PopularContests(_ context.Context, limit int) ([]core.Contest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var confirmed []core.Contest
	for _, c := range s.contests {
		if c.Status == core.ContestConfirmed {
			c.ParticipantCount = int64(len(c.Participants))
			confirmed = append(confirmed, c)
		}
	}
	sort.SliceStable(confirmed, func(i, j int) bool {
		return confirmed[i].ParticipantCount > confirmed[j].ParticipantCount
	})
	if len(confirmed) > limit {
		confirmed = confirmed[:limit]
	}
	return confirmed, nil
}

// index must be called with the lock held.
func (s *MemoryContests) index(id bson.ObjectID) int {
	for i, c := range s.contests {
		if c.ID == id {
			return i
		}
	}
	return -1
}
