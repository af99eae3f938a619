package models

// User holds the per-user state this service needs: the stored GitHub token
// used to fetch source items on the user's behalf. Session handling lives
// upstream; the _id is the identity the auth layer hands us.
type User struct {
	ID          string `bson:"_id" json:"id"`
	GitHubToken string `bson:"github_token" json:"-"`
}
