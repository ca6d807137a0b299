// Package store provides the persistence layer: a MongoDB implementation
// used in production and an in-memory implementation with the same
// semantics for tests and local development.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mdshamim125/contest-hub-server/internal/core"
)

const (
	// DefaultDatabaseName is the database used when none is configured.
	DefaultDatabaseName = "contest-hub"

	usersCollectionName    = "users"
	contestsCollectionName = "contests"
)

var (
	_ core.UserStore    = (*MongoUsers)(nil)
	_ core.ContestStore = (*MongoContests)(nil)
)

// Mongo bundles the collection-backed stores. It is safe for concurrent
// use; cross-request consistency relies on per-document atomicity of
// single updates.
type Mongo struct {
	Users    *MongoUsers
	Contests *MongoContests
}

func NewMongo(client *mongo.Client, dbName string) *Mongo {
	if dbName == "" {
		dbName = DefaultDatabaseName
	}
	db := client.Database(dbName)
	return &Mongo{
		Users:    &MongoUsers{c: db.Collection(usersCollectionName)},
		Contests: &MongoContests{c: db.Collection(contestsCollectionName)},
	}
}

// MongoUsers persists identity records in the users collection.
type MongoUsers struct {
	c *mongo.Collection
}

// SaveOrFetch is a single atomic upsert: $setOnInsert writes the record
// only when no document with the email exists, so concurrent first
// contacts from the same email cannot produce divergent records.
func (s *MongoUsers) SaveOrFetch(ctx context.Context, user core.User) (*core.User, error) {
	update := bson.M{"$setOnInsert": bson.M{
		"email":     user.Email,
		"name":      user.Name,
		"role":      user.Role,
		"status":    core.StatusActive,
		"timestamp": time.Now(),
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var out core.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"email": user.Email}, update, opts).Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}
	return &out, nil
}

func (s *MongoUsers) Get(ctx context.Context, email string) (*core.User, error) {
	var out core.User
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &out, nil
}

func (s *MongoUsers) List(ctx context.Context) ([]core.User, error) {
	cursor, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	var users []core.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	return users, nil
}

func (s *MongoUsers) Update(ctx context.Context, email string, upd core.UserUpdate) (*core.UpdateResult, error) {
	set := bson.M{"timestamp": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return updateResult(res), nil
}

func (s *MongoUsers) Delete(ctx context.Context, email string) (*core.DeleteResult, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("deleting user: %w", err)
	}
	return &core.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

// MongoContests persists contest documents in the contests collection.
type MongoContests struct {
	c *mongo.Collection
}

func (s *MongoContests) Insert(ctx context.Context, contest core.Contest) (*core.InsertResult, error) {
	if contest.ID.IsZero() {
		contest.ID = bson.NewObjectID()
	}
	res, err := s.c.InsertOne(ctx, contest)
	if err != nil {
		return nil, fmt.Errorf("inserting contest: %w", err)
	}
	id, _ := res.InsertedID.(bson.ObjectID)
	return &core.InsertResult{InsertedID: id.Hex()}, nil
}

func (s *MongoContests) Get(ctx context.Context, id string) (*core.Contest, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var out core.Contest
	err = s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding contest: %w", err)
	}
	return &out, nil
}

func (s *MongoContests) List(ctx context.Context, filter core.ContestFilter) ([]core.Contest, error) {
	query := bson.M{}
	if filter.CreatorEmail != "" {
		query["creator.email"] = filter.CreatorEmail
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := s.c.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing contests: %w", err)
	}
	var contests []core.Contest
	if err := cursor.All(ctx, &contests); err != nil {
		return nil, fmt.Errorf("decoding contests: %w", err)
	}
	return contests, nil
}

func (s *MongoContests) Update(ctx context.Context, id string, upd core.ContestUpdate) (*core.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Prize != nil {
		set["prize"] = *upd.Prize
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Deadline != nil {
		set["deadline"] = *upd.Deadline
	}
	if len(set) == 0 {
		// an empty $set is rejected by the server
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return nil, fmt.Errorf("checking contest: %w", err)
		}
		return &core.UpdateResult{MatchedCount: n}, nil
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("updating contest: %w", err)
	}
	return updateResult(res), nil
}

func (s *MongoContests) Delete(ctx context.Context, id string) (*core.DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("deleting contest: %w", err)
	}
	return &core.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

func (s *MongoContests) Confirm(ctx context.Context, id string) (*core.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{
		"status":    core.ContestConfirmed,
		"published": true,
	}}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("confirming contest: %w", err)
	}
	return updateResult(res), nil
}

func (s *MongoContests) AddComment(ctx context.Context, id string, comment string) (*core.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$push": bson.M{"comments": comment}}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}
	return updateResult(res), nil
}

// Register pushes the participant and bumps the counter in one update
// whose filter excludes documents that already contain the participant
// email. Matching and writing are atomic per document, which closes the
// duplicate-registration race window.
func (s *MongoContests) Register(ctx context.Context, id string, p core.Participant) (*core.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"_id":                oid,
		"participants.email": bson.M{"$ne": p.Email},
	}
	update := bson.M{
		"$push": bson.M{"participants": p},
		"$inc":  bson.M{"participantCount": 1},
	}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("registering participant: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either the contest does not exist or the participant is
		// already in it; only the failure path pays for the lookup.
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return nil, fmt.Errorf("checking contest: %w", err)
		}
		if n == 0 {
			return nil, core.ErrNotFound
		}
		return nil, core.ErrAlreadyRegistered
	}
	return updateResult(res), nil
}

// PopularCreators runs the grouping server-side. $ifNull keeps documents
// with a missing participants array countable as zero.
func (s *MongoContests) PopularCreators(ctx context.Context, limit int) ([]core.CreatorRank, error) {
	participantsSize := bson.M{"$size": bson.M{"$ifNull": bson.A{"$participants", bson.A{}}}}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$creator.email",
			"name":  bson.M{"$first": "$creator.name"},
			"total": bson.M{"$sum": participantsSize},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"total": -1}}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	}

	cursor, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("ranking creators: %w", err)
	}
	var ranks []core.CreatorRank
	if err := cursor.All(ctx, &ranks); err != nil {
		return nil, fmt.Errorf("decoding creator ranks: %w", err)
	}
	return ranks, nil
}

func (s *MongoContests) PopularContests(ctx context.Context, limit int) ([]core.Contest, error) {
	participantsSize := bson.M{"$size": bson.M{"$ifNull": bson.A{"$participants", bson.A{}}}}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": core.ContestConfirmed}}},
		bson.D{{Key: "$addFields", Value: bson.M{"participantCount": participantsSize}}},
		bson.D{{Key: "$sort", Value: bson.M{"participantCount": -1}}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	}

	cursor, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("ranking contests: %w", err)
	}
	var contests []core.Contest
	if err := cursor.All(ctx, &contests); err != nil {
		return nil, fmt.Errorf("decoding contests: %w", err)
	}
	return contests, nil
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: %q", core.ErrInvalidID, id)
	}
	return oid, nil
}

func updateResult(res *mongo.UpdateResult) *core.UpdateResult {
	return &core.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
}
