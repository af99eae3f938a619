package repository

import (
	"context"
	"log"
	"time"

	"github.com/pullstory/api/internal/apperr"
	"github.com/pullstory/api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ArticleMongo persists articles in the "articles" collection.
//
// Expected schema:
//
//	articles
//	  { _id: string (uuid), owner, repo, number, source: {...},
//	    contents: { "<lang>": { title, background, changes, points,
//	                            generated_at, like_count } },
//	    total_like_count: long, created_at }
//
// Counter updates are expressed as single-document atomic updates so that
// concurrent likes on the same article never lose increments.
type ArticleMongo struct {
	col *mongo.Collection
}

// NewArticleRepository wires the collection and ensures the unique index on
// the natural key (owner, repo, number).
func NewArticleRepository(db *mongo.Database) (*ArticleMongo, error) {
	col := db.Collection("articles")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner", Value: 1},
			{Key: "repo", Value: 1},
			{Key: "number", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &ArticleMongo{col: col}, nil
}

// FindByKey fetches the article for a natural (owner, repo, number) key.
func (r *ArticleMongo) FindByKey(ctx context.Context, owner, repo string, number int) (models.Article, error) {
	var a models.Article
	err := r.col.FindOne(ctx, bson.M{"owner": owner, "repo": repo, "number": number}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Article{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Article{}, err
	}
	return a, nil
}

// FindByID fetches an article by its id.
func (r *ArticleMongo) FindByID(ctx context.Context, id string) (models.Article, error) {
	var a models.Article
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Article{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Article{}, err
	}
	return a, nil
}

// FindByIDs batch-fetches articles. Missing ids are simply absent from the
// result; callers decide whether that matters.
func (r *ArticleMongo) FindByIDs(ctx context.Context, ids []string) (map[string]models.Article, error) {
	out := make(map[string]models.Article, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var articles []models.Article
	if err := cur.All(ctx, &articles); err != nil {
		return nil, err
	}
	for _, a := range articles {
		out[a.ID] = a
	}
	return out, nil
}

// UpsertSnapshot creates the article if its natural key is absent. An
// existing document is left completely untouched—$setOnInsert guarantees the
// snapshot, contents, and counters of a prior ingestion survive.
func (r *ArticleMongo) UpsertSnapshot(ctx context.Context, a models.Article) error {
	filter := bson.M{"owner": a.Owner, "repo": a.Repo, "number": a.Number}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":              a.ID,
		"owner":            a.Owner,
		"repo":             a.Repo,
		"number":           a.Number,
		"source":           a.Source,
		"contents":         bson.M{},
		"total_like_count": 0,
		"created_at":       a.CreatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	if res.UpsertedCount > 0 {
		log.Printf("[Article Repository] Cached %s/%s#%d as %s", a.Owner, a.Repo, a.Number, a.ID)
	}
	return nil
}

// MergeContent replaces one language's content block wholesale, leaving the
// other languages and every counter untouched. A pipeline update keeps the
// existing like count for the language in the same atomic write, so a
// regeneration racing a like cannot zero the counter.
func (r *ArticleMongo) MergeContent(ctx context.Context, id, lang string, block models.ContentBlock) error {
	field := "contents." + lang
	update := mongo.Pipeline{{{Key: "$set", Value: bson.M{
		field: bson.M{
			"title":        bson.M{"$literal": block.Title},
			"background":   bson.M{"$literal": block.Background},
			"changes":      bson.M{"$literal": block.Changes},
			"points":       bson.M{"$literal": block.Points},
			"generated_at": block.GeneratedAt,
			"like_count":   bson.M{"$ifNull": []interface{}{"$" + field + ".like_count", 0}},
		},
	}}}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AdjustLikeCount applies delta to both the language counter and the
// aggregate counter in one atomic document update. It fails NotFound when
// the article or that language's content block is missing—an unsummarized
// language cannot be liked. The returned count is clamped at zero.
func (r *ArticleMongo) AdjustLikeCount(ctx context.Context, id, lang string, delta int64) (int64, error) {
	filter := bson.M{"_id": id, "contents." + lang: bson.M{"$exists": true}}
	update := bson.M{"$inc": bson.M{
		"contents." + lang + ".like_count": delta,
		"total_like_count":                 delta,
	}}

	var a models.Article
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return 0, apperr.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	count := a.Contents[lang].LikeCount
	if count < 0 {
		count = 0
	}
	return count, nil
}

// RankedQuery returns articles ordered by like count descending. A zero
// `since` means no time filter; an empty lang ranks by the aggregate counter,
// otherwise by that language's counter (articles lacking the language are
// excluded). Offset/limit are applied after the sort.
func (r *ArticleMongo) RankedQuery(ctx context.Context, since time.Time, lang string, limit, offset int) ([]models.Article, error) {
	match := bson.M{}
	if !since.IsZero() {
		match["created_at"] = bson.M{"$gte": since}
	}

	score := "$total_like_count"
	if lang != "" {
		match["contents."+lang] = bson.M{"$exists": true}
		score = "$contents." + lang + ".like_count"
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{"rank_score": score}}},
		{{Key: "$sort", Value: bson.D{{Key: "rank_score", Value: -1}}}},
		{{Key: "$skip", Value: offset}},
		{{Key: "$limit", Value: limit}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var articles []models.Article
	if err := cur.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}
