package domain

import "time"

// Post is the core aggregate: free-text content with an optional media
// attachment, owned by the user who created it.
type Post struct {
	ID string `json:"id" bson:"_id,omitempty"`
	// Content is required and non-empty.
	Content string `json:"content" bson:"content"`
	// ImageURL is the public URL of the attached media, empty when none.
	ImageURL string `json:"image_url,omitempty" bson:"image_url,omitempty"`
	// ImageKey is the media store deletion handle. Never serialized to
	// clients.
	ImageKey string `json:"-" bson:"image_key,omitempty"`
	// CreatedBy references the owning user's id. Immutable after creation.
	CreatedBy string    `json:"created_by" bson:"created_by"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CanModify reports whether a caller with the given id and role may mutate
// or delete the post. Only the owner or an admin may.
func (p *Post) CanModify(callerID, role string) bool {
	return role == RoleAdmin || p.CreatedBy == callerID
}
