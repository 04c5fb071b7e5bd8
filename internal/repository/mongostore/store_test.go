package mongostore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/cardrank/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no documents", err: mongo.ErrNoDocuments, want: repository.ErrNotFound},
		{name: "duplicate key", err: mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}, want: repository.ErrDuplicate},
		{name: "deadline", err: fmt.Errorf("find: %w", context.DeadlineExceeded), want: repository.ErrUnavailable},
		{name: "disconnected", err: mongo.ErrClientDisconnected, want: repository.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}
}

func TestClassify_PassesThroughUnknown(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, classify(boom))
	assert.NoError(t, classify(nil))
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(mongo.ErrNoDocuments), repository.ErrNotFound)

	other := errors.New("other")
	assert.Equal(t, other, notFound(other))
}

func TestListOptionsUseInsertionOrder(t *testing.T) {
	opts := listOptions()

	assert.Equal(t, bson.D{{Key: "$natural", Value: 1}}, opts.Sort)
	assert.Nil(t, opts.Limit)
}
