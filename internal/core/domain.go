package core

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is the stored role of a user. An empty role means a regular
// participant with no elevated privileges.
type Role string

const (
	RoleNone    Role = ""
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// Status is the block status of a user. Admins may block users; blocked
// creators cannot publish new contests.
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusBlocked:
		return true
	}
	return false
}

// ContestStatus gates contest visibility: only confirmed contests show up
// in the public listing and rankings.
type ContestStatus string

const (
	ContestPending   ContestStatus = "pending"
	ContestConfirmed ContestStatus = "confirmed"
)

// User is the stored identity record, keyed uniquely by email.
// It is created on first authenticated contact and mutated only by admins.
type User struct {
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Role      Role      `bson:"role,omitempty" json:"role,omitempty"`
	Status    Status    `bson:"status,omitempty" json:"status,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// CreatorRef denormalizes the owning creator into a contest document.
type CreatorRef struct {
	Email string `bson:"email" json:"email"`
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
}

// Participant is one registration inside a contest document.
type Participant struct {
	Email    string    `bson:"email" json:"email"`
	Name     string    `bson:"name,omitempty" json:"name,omitempty"`
	JoinedAt time.Time `bson:"joinedAt" json:"joinedAt"`
}

type Contest struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Category    string        `bson:"category,omitempty" json:"category,omitempty"`
	Image       string        `bson:"image,omitempty" json:"image,omitempty"`
	Prize       string        `bson:"prize,omitempty" json:"prize,omitempty"`
	Price       float64       `bson:"price,omitempty" json:"price,omitempty"`
	Deadline    time.Time     `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Status      ContestStatus `bson:"status" json:"status"`
	Published   bool          `bson:"published" json:"published"`
	Creator     CreatorRef    `bson:"creator" json:"creator"`

	// Participants may be absent on old documents; rankings treat a
	// missing array as zero participants.
	Participants     []Participant `bson:"participants,omitempty" json:"participants,omitempty"`
	ParticipantCount int64         `bson:"participantCount" json:"participantCount"`

	Comments  []string  `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CreatorRank is one row of the popular-creators ranking: a creator email
// with the summed participant count over all their contests.
type CreatorRank struct {
	Email             string `bson:"_id" json:"email"`
	Name              string `bson:"name,omitempty" json:"name,omitempty"`
	TotalParticipants int64  `bson:"total" json:"totalParticipants"`
}
