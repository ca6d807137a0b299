package core

import (
	"context"
	"time"
)

// UpdateResult mirrors the document store's update acknowledgment.
// Handlers echo it verbatim to the caller.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
}

type InsertResult struct {
	InsertedID string `json:"insertedId"`
}

type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// UserUpdate carries the admin-mutable fields of a user record.
// Nil fields are left untouched.
type UserUpdate struct {
	Name   *string
	Role   *Role
	Status *Status
}

// ContestUpdate carries the creator-mutable fields of a contest document.
// Nil fields are left untouched.
type ContestUpdate struct {
	Name        *string
	Description *string
	Category    *string
	Image       *string
	Prize       *string
	Price       *float64
	Deadline    *time.Time
}

// ContestFilter narrows contest listings. Zero values mean "no filter".
type ContestFilter struct {
	CreatorEmail string
	Status       ContestStatus
}

// UserStore persists identity records, keyed uniquely by email.
type UserStore interface {
	// SaveOrFetch inserts the user if no record with the same email
	// exists, as a single atomic upsert, and returns the stored record
	// either way. An existing record is returned unmodified.
	SaveOrFetch(ctx context.Context, user User) (*User, error)

	// Get returns the user with the given email, or ErrNotFound.
	Get(ctx context.Context, email string) (*User, error)

	List(ctx context.Context) ([]User, error)

	// Update applies the non-nil fields and refreshes the record
	// timestamp.
	Update(ctx context.Context, email string, upd UserUpdate) (*UpdateResult, error)

	Delete(ctx context.Context, email string) (*DeleteResult, error)
}

// ContestStore persists contest documents.
type ContestStore interface {
	Insert(ctx context.Context, contest Contest) (*InsertResult, error)

	// Get returns the contest with the given hex id, ErrInvalidID on a
	// malformed id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Contest, error)

	List(ctx context.Context, filter ContestFilter) ([]Contest, error)

	Update(ctx context.Context, id string, upd ContestUpdate) (*UpdateResult, error)

	Delete(ctx context.Context, id string) (*DeleteResult, error)

	// Confirm publishes the contest (status=confirmed, published=true).
	Confirm(ctx context.Context, id string) (*UpdateResult, error)

	AddComment(ctx context.Context, id string, comment string) (*UpdateResult, error)

	// Register appends the participant and increments the denormalized
	// counter in one conditional update. The update matches only when
	// the participant email is not already present, so concurrent
	// registrations cannot both pass the duplicate check. Returns
	// ErrAlreadyRegistered on a duplicate, ErrNotFound if the contest
	// does not exist.
	Register(ctx context.Context, id string, p Participant) (*UpdateResult, error)

	// PopularCreators groups contests by creator email, summing each
	// contest's participant count (a missing participants array counts
	// as zero), and returns the top entries by total.
	PopularCreators(ctx context.Context, limit int) ([]CreatorRank, error)

	// PopularContests returns confirmed contests sorted by participant
	// count, descending.
	PopularContests(ctx context.Context, limit int) ([]Contest, error)
}
