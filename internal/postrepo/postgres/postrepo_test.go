package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haguru/jiraiya/pkg/databases/postgres"
	"github.com/haguru/jiraiya/pkg/zerolog"
)

func TestNewPostgresPostRepository_NotConnected(t *testing.T) {
	_, err := NewPostgresPostRepository(nil)
	assert.Error(t, err)

	_, err = NewPostgresPostRepository(postgres.NewPostgresDatabaseClient(0, 0, 0, zerolog.NewNopLogger()))
	assert.Error(t, err)
}
