package models

import "time"

// LikeRecord proves that a user liked a specific article in a specific
// language. At most one record exists per (UserID, ArticleID, Lang); records
// are created on like and deleted on unlike, never soft-deleted.
type LikeRecord struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	ArticleID string    `bson:"article_id" json:"article_id"`
	Lang      string    `bson:"lang" json:"lang"`
	LikedAt   time.Time `bson:"liked_at" json:"liked_at"`
}
