package postservice

const (
	ErrFailedToCreatePost = "failed to create post"
	ErrFailedToListPosts  = "failed to list posts"
	ErrRetrievingPost     = "error retrieving post"
	ErrFailedToUpdatePost = "failed to update post"
	ErrFailedToDeletePost = "failed to delete post"
	ErrNotAuthor          = "caller is not the author"
)
