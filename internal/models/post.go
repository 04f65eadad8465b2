package models

// Post is the stored blog post. ID is assigned by the repository and Author is
// set from the authenticated caller; neither is ever taken from request payloads.
type Post struct {
	ID      int64  `bson:"id" mapstructure:"id" db:"id"`
	Title   string `bson:"title" mapstructure:"title" db:"title"`
	Content string `bson:"content" mapstructure:"content" db:"content"`
	Author  string `bson:"author" mapstructure:"author" db:"author"`
}

// NewPost builds an unsaved post for author.
func NewPost(title, content, author string) *Post {
	return &Post{
		Title:   title,
		Content: content,
		Author:  author,
	}
}
