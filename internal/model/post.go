package model

// CreatePostRequest is the body a client sends to publish a post.
// PostID is optional; when omitted the store generates it.
type CreatePostRequest struct {
	PostID      *int64  `json:"post_id,omitempty"`
	PostUserID  int64   `json:"post_user_id" validate:"required,gt=0"`
	PostContent string  `json:"post_content" validate:"required"`
	PostDate    string  `json:"post_date"    validate:"required"`
	PostTag     *string `json:"post_tag,omitempty"`
}

// CreatePostResponse is a stored post as returned to clients.
type CreatePostResponse struct {
	PostID      int64   `json:"post_id"`
	PostUserID  int64   `json:"post_user_id"`
	PostContent string  `json:"post_content"`
	PostDate    string  `json:"post_date"`
	PostTag     *string `json:"post_tag,omitempty"`
}
