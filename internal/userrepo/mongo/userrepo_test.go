package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/jiraiya/config"
	mongoClient "github.com/haguru/jiraiya/pkg/databases/mongo"
	"github.com/haguru/jiraiya/pkg/zerolog"
)

func TestNewMongoUserRepository(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		wantErr bool
	}{
		{name: "all fields whitelisted", fields: []string{UsernameField, PasswordField}},
		{name: "username not whitelisted", fields: []string{PasswordField}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mongoClient.NewMongoDB(&config.MongoDBConfig{ValidFields: tt.fields}, zerolog.NewNopLogger())
			repo, err := NewMongoUserRepository(client)
			if tt.wantErr {
				assert.ErrorContains(t, err, UsernameField)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, repo)
		})
	}
}

func TestNewMongoUserRepository_NilClient(t *testing.T) {
	_, err := NewMongoUserRepository(nil)
	assert.Error(t, err)
}
