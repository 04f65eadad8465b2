package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/haguru/jiraiya/config"
	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/models"
	mongoClient "github.com/haguru/jiraiya/pkg/databases/mongo"
	"github.com/haguru/jiraiya/pkg/zerolog"
)

func TestDecodePosts(t *testing.T) {
	tests := []struct {
		name    string
		docs    []interfaces.Document
		want    []models.Post
		wantErr bool
	}{
		{
			name: "empty",
			docs: []interfaces.Document{},
			want: []models.Post{},
		},
		{
			name: "keeps order and ignores _id",
			docs: []interfaces.Document{
				map[string]interface{}{"_id": primitive.NewObjectID(), "id": int64(2), "title": "B", "content": "b", "author": "bob"},
				map[string]interface{}{"_id": primitive.NewObjectID(), "id": int64(1), "title": "A", "content": "a", "author": "alice"},
			},
			want: []models.Post{
				{ID: 2, Title: "B", Content: "b", Author: "bob"},
				{ID: 1, Title: "A", Content: "a", Author: "alice"},
			},
		},
		{
			name: "int32 id from older documents",
			docs: []interfaces.Document{
				map[string]interface{}{"id": int32(7), "title": "T", "content": "c", "author": "alice"},
			},
			want: []models.Post{{ID: 7, Title: "T", Content: "c", Author: "alice"}},
		},
		{
			name:    "wrong field type",
			docs:    []interfaces.Document{map[string]interface{}{"id": "seven"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodePosts(tt.docs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewMongoPostRepository_FieldWhitelist(t *testing.T) {
	logger := zerolog.NewNopLogger()

	full := mongoClient.NewMongoDB(&config.MongoDBConfig{
		ValidFields: []string{IDField, TitleField, ContentField, AuthorField},
	}, logger)
	_, err := NewMongoPostRepository(full)
	require.NoError(t, err)

	withoutID := mongoClient.NewMongoDB(&config.MongoDBConfig{
		ValidFields: []string{TitleField, ContentField, AuthorField},
	}, logger)
	_, err = NewMongoPostRepository(withoutID)
	assert.ErrorContains(t, err, IDField)
}

func TestNewMongoPostRepository_NilClient(t *testing.T) {
	_, err := NewMongoPostRepository(nil)
	assert.Error(t, err)
}
