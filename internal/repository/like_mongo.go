package repository

import (
	"context"
	"time"

	"github.com/pullstory/api/internal/apperr"
	"github.com/pullstory/api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LikeMongo is the like ledger over the "likes" collection. The unique index
// on (user_id, article_id, lang) makes the ledger itself enforce the
// one-like-per-user-per-language invariant; a duplicate insert surfaces as
// apperr.ErrConflict so the workflow can treat a lost race as already-liked.
type LikeMongo struct {
	col *mongo.Collection
}

// NewLikeRepository wires the collection and ensures the uniqueness index.
func NewLikeRepository(db *mongo.Database) (*LikeMongo, error) {
	col := db.Collection("likes")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "article_id", Value: 1},
			{Key: "lang", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &LikeMongo{col: col}, nil
}

// Find returns the like record for (userID, articleID, lang), or NotFound.
func (r *LikeMongo) Find(ctx context.Context, userID, articleID, lang string) (models.LikeRecord, error) {
	var rec models.LikeRecord
	err := r.col.FindOne(ctx, bson.M{
		"user_id":    userID,
		"article_id": articleID,
		"lang":       lang,
	}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return models.LikeRecord{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.LikeRecord{}, err
	}
	return rec, nil
}

// Insert adds a like record. ErrConflict on a duplicate triple.
func (r *LikeMongo) Insert(ctx context.Context, rec models.LikeRecord) error {
	_, err := r.col.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.ErrConflict
	}
	return err
}

// Delete removes the like record for the triple. NotFound when nothing was
// deleted.
func (r *LikeMongo) Delete(ctx context.Context, userID, articleID, lang string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{
		"user_id":    userID,
		"article_id": articleID,
		"lang":       lang,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListByUser returns every like record the user has created.
func (r *LikeMongo) ListByUser(ctx context.Context, userID string) ([]models.LikeRecord, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.LikeRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
