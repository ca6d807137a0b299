package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mdshamim125/contest-hub-server/internal/core"
)

func TestMemoryUsers_SaveOrFetch(t *testing.T) {
	t.Parallel()

	s := NewMemory().Users
	ctx := context.Background()

	first, err := s.SaveOrFetch(ctx, core.User{Email: "a@example.com", Name: "Alice"})
	if err != nil {
		t.Fatal(err)
	}
	if first.Status != core.StatusActive {
		t.Errorf("status = %q, want %q", first.Status, core.StatusActive)
	}

	// second save with different data must return the stored document
	second, err := s.SaveOrFetch(ctx, core.User{Email: "a@example.com", Name: "Changed"})
	if err != nil {
		t.Fatal(err)
	}
	if second.Name != "Alice" {
		t.Errorf("name = %q, want existing %q", second.Name, "Alice")
	}
}

func TestMemoryUsers_UpdateMissing(t *testing.T) {
	t.Parallel()

	s := NewMemory().Users
	name := "Nobody"
	res, err := s.Update(context.Background(), "missing@example.com", core.UserUpdate{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if res.MatchedCount != 0 {
		t.Errorf("matched = %d, want 0", res.MatchedCount)
	}
}

func TestMemoryContests_Register(t *testing.T) {
	t.Parallel()

	s := NewMemory().Contests
	ctx := context.Background()

	ins, err := s.Insert(ctx, core.Contest{Name: "Logo Design", Status: core.ContestConfirmed})
	if err != nil {
		t.Fatal(err)
	}

	p := core.Participant{Email: "p@example.com", Name: "Pat"}
	if _, err := s.Register(ctx, ins.InsertedID, p); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := s.Register(ctx, ins.InsertedID, p); !errors.Is(err, core.ErrAlreadyRegistered) {
		t.Fatalf("second register err = %v, want ErrAlreadyRegistered", err)
	}

	contest, err := s.Get(ctx, ins.InsertedID)
	if err != nil {
		t.Fatal(err)
	}
	if len(contest.Participants) != 1 {
		t.Errorf("participants = %d, want 1", len(contest.Participants))
	}
	if contest.ParticipantCount != 1 {
		t.Errorf("participantCount = %d, want 1", contest.ParticipantCount)
	}
}

func TestMemoryContests_RegisterMissing(t *testing.T) {
	t.Parallel()

	s := NewMemory().Contests
	_, err := s.Register(context.Background(), "64b1f0c2a3d4e5f601234567", core.Participant{Email: "p@example.com"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	_, err = s.Register(context.Background(), "not-an-id", core.Participant{Email: "p@example.com"})
	if !errors.Is(err, core.ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
}

func TestMemoryContests_PopularCreators(t *testing.T) {
	t.Parallel()

	s := NewMemory().Contests
	ctx := context.Background()

	add := func(creator string, participants int) {
		t.Helper()
		c := core.Contest{Creator: core.CreatorRef{Email: creator, Name: creator}}
		for i := 0; i < participants; i++ {
			c.Participants = append(c.Participants, core.Participant{Email: creator + string(rune('0'+i))})
		}
		if _, err := s.Insert(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	add("a@example.com", 10)
	add("b@example.com", 7)
	add("c@example.com", 7)
	add("d@example.com", 3)

	ranks, err := s.PopularCreators(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []core.CreatorRank{
		{Email: "a@example.com", Name: "a@example.com", TotalParticipants: 10},
		{Email: "b@example.com", Name: "b@example.com", TotalParticipants: 7},
		{Email: "c@example.com", Name: "c@example.com", TotalParticipants: 7},
	}
	if diff := cmp.Diff(want, ranks); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryContests_PopularContestsOnlyConfirmed(t *testing.T) {
	t.Parallel()

	s := NewMemory().Contests
	ctx := context.Background()

	if _, err := s.Insert(ctx, core.Contest{Name: "Pending", Status: core.ContestPending}); err != nil {
		t.Fatal(err)
	}
	confirmed := core.Contest{Name: "Confirmed", Status: core.ContestConfirmed,
		Participants: []core.Participant{{Email: "p@example.com"}}}
	if _, err := s.Insert(ctx, confirmed); err != nil {
		t.Fatal(err)
	}

	top, err := s.PopularContests(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 {
		t.Fatalf("len = %d, want 1", len(top))
	}
	if top[0].Name != "Confirmed" {
		t.Errorf("name = %q, want %q", top[0].Name, "Confirmed")
	}
	if top[0].ParticipantCount != 1 {
		t.Errorf("participantCount = %d, want 1", top[0].ParticipantCount)
	}
}

func TestMemoryContests_Confirm(t *testing.T) {
	t.Parallel()

	s := NewMemory().Contests
	ctx := context.Background()

	ins, err := s.Insert(ctx, core.Contest{Name: "Essay", Status: core.ContestPending})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Confirm(ctx, ins.InsertedID); err != nil {
		t.Fatal(err)
	}

	contest, err := s.Get(ctx, ins.InsertedID)
	if err != nil {
		t.Fatal(err)
	}
	if contest.Status != core.ContestConfirmed {
		t.Errorf("status = %q, want %q", contest.Status, core.ContestConfirmed)
	}
	if !contest.Published {
		t.Error("published = false, want true")
	}
}
