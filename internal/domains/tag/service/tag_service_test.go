package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"serialfic-backend/internal/domains/tag"
	"serialfic-backend/internal/infrastructure/cache"
	"serialfic-backend/internal/shared/apperror"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *mockRepo) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func newService(t *testing.T) (tag.Service, *mockRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &mockRepo{}
	return NewTagService(repo, cache.NewRedisCache(client, "test:")), repo
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("blank tag", func(t *testing.T) {
		svc, repo := newService(t)
		err := svc.Create(ctx, tag.TagRequest{Tag: "   "})
		assert.Equal(t, "Tag must be provided", apperror.From(err).Message)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("trims and invalidates the cached list", func(t *testing.T) {
		svc, repo := newService(t)
		repo.On("List", ctx).Return([]string{"fantasy"}, nil).Once()
		repo.On("Create", ctx, "horror").Return(nil)
		repo.On("List", ctx).Return([]string{"fantasy", "horror"}, nil).Once()

		tags, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"fantasy"}, tags)

		require.NoError(t, svc.Create(ctx, tag.TagRequest{Tag: " horror "}))

		tags, err = svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"fantasy", "horror"}, tags)
		repo.AssertExpectations(t)
	})
}

func TestList_ServedFromCache(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	repo.On("List", ctx).Return(nil, nil).Once()

	for i := 0; i < 3; i++ {
		tags, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{}, tags)
	}
	repo.AssertNumberOfCalls(t, "List", 1)
}
