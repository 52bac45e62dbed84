package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"serialfic-backend/internal/domains/chapter"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) BookVisible(ctx context.Context, bid uuid.UUID, publishedOnly bool) (bool, error) {
	args := m.Called(ctx, bid, publishedOnly)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, bid uuid.UUID, publishedOnly bool) ([]chapter.Summary, error) {
	args := m.Called(ctx, bid, publishedOnly)
	out, _ := args.Get(0).([]chapter.Summary)
	return out, args.Error(1)
}

func (m *mockRepo) Get(ctx context.Context, bid uuid.UUID, number int, publishedOnly bool) (*chapter.Chapter, error) {
	args := m.Called(ctx, bid, number, publishedOnly)
	c, _ := args.Get(0).(*chapter.Chapter)
	return c, args.Error(1)
}

func (m *mockRepo) Exists(ctx context.Context, bid uuid.UUID, number int, publishedOnly bool) (bool, error) {
	args := m.Called(ctx, bid, number, publishedOnly)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) UserOwnsChapter(ctx context.Context, bid uuid.UUID, number int, uid uuid.UUID) (bool, error) {
	args := m.Called(ctx, bid, number, uid)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) RecordRead(ctx context.Context, reader *uuid.UUID, bid uuid.UUID, number int) (bool, error) {
	args := m.Called(ctx, reader, bid, number)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) LastRead(ctx context.Context, uid, bid uuid.UUID) (*chapter.LastRead, error) {
	args := m.Called(ctx, uid, bid)
	lr, _ := args.Get(0).(*chapter.LastRead)
	return lr, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, uid, bid uuid.UUID, title, content string) (int, bool, error) {
	args := m.Called(ctx, uid, bid, title, content)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *mockRepo) Update(ctx context.Context, uid, bid uuid.UUID, number int, p chapter.Patch) (bool, error) {
	args := m.Called(ctx, uid, bid, number, p)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, uid, bid uuid.UUID, number int) (bool, error) {
	args := m.Called(ctx, uid, bid, number)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) SetPublished(ctx context.Context, uid, bid uuid.UUID, number int, published bool) (bool, error) {
	args := m.Called(ctx, uid, bid, number, published)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) Like(ctx context.Context, uid, bid uuid.UUID, number int) (int, bool, error) {
	args := m.Called(ctx, uid, bid, number)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *mockRepo) Unlike(ctx context.Context, uid, bid uuid.UUID, number int) (int, bool, error) {
	args := m.Called(ctx, uid, bid, number)
	return args.Int(0), args.Bool(1), args.Error(2)
}

type ownerPolicy struct{ owner uuid.UUID }

func (p ownerPolicy) IsRestrictedToPublished(_ context.Context, requester *uuid.UUID, _ uuid.UUID) (bool, error) {
	return requester == nil || *requester != p.owner, nil
}

func newService(owner uuid.UUID) (chapter.Service, *mockRepo) {
	repo := new(mockRepo)
	return NewChapterService(repo, ownerPolicy{owner: owner}), repo
}

func TestList(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	bid := uuid.New()

	t.Run("hidden book", func(t *testing.T) {
		svc, repo := newService(owner)
		repo.On("BookVisible", ctx, bid, true).Return(false, nil)

		_, err := svc.List(ctx, nil, bid)
		assert.ErrorIs(t, err, chapter.ErrBookNotFound)
	})

	t.Run("owner sees drafts", func(t *testing.T) {
		svc, repo := newService(owner)
		repo.On("BookVisible", ctx, bid, false).Return(true, nil)
		repo.On("List", ctx, bid, false).Return(nil, nil)

		chapters, err := svc.List(ctx, &owner, bid)
		require.NoError(t, err)
		assert.Equal(t, []chapter.Summary{}, chapters)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	reader := uuid.New()
	bid := uuid.New()
	now := time.Now()

	t.Run("draft is hidden from readers", func(t *testing.T) {
		svc, repo := newService(owner)
		repo.On("Get", ctx, bid, 2, true).Return(nil, nil)

		_, err := svc.Get(ctx, &reader, bid, 2)
		assert.ErrorIs(t, err, chapter.ErrChapterNotFound)
	})

	t.Run("published read is counted and created_at hidden", func(t *testing.T) {
		svc, repo := newService(owner)
		repo.On("Get", ctx, bid, 1, true).
			Return(&chapter.Chapter{BID: bid, Number: 1, PublishedAt: &now, CreatedAt: &now, Reads: 4}, nil)
		repo.On("RecordRead", ctx, &reader, bid, 1).Return(true, nil)

		c, err := svc.Get(ctx, &reader, bid, 1)
		require.NoError(t, err)
		assert.Equal(t, 5, c.Reads)
		assert.Nil(t, c.CreatedAt)
	})

	t.Run("owner draft read is not counted", func(t *testing.T) {
		svc, repo := newService(owner)
		repo.On("Get", ctx, bid, 3, false).
			Return(&chapter.Chapter{BID: bid, Number: 3, CreatedAt: &now}, nil)

		c, err := svc.Get(ctx, &owner, bid, 3)
		require.NoError(t, err)
		assert.NotNil(t, c.CreatedAt)
		repo.AssertNotCalled(t, "RecordRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("owner view of a published chapter in a draft book is not counted", func(t *testing.T) {
		svc, repo := newService(owner)
		repo.On("Get", ctx, bid, 1, false).
			Return(&chapter.Chapter{BID: bid, Number: 1, PublishedAt: &now, CreatedAt: &now, Reads: 4}, nil)
		repo.On("RecordRead", ctx, &owner, bid, 1).Return(false, nil)

		c, err := svc.Get(ctx, &owner, bid, 1)
		require.NoError(t, err)
		assert.Equal(t, 4, c.Reads)
	})

	t.Run("failed read tracking does not fail the read", func(t *testing.T) {
		svc, repo := newService(owner)
		repo.On("Get", ctx, bid, 1, true).
			Return(&chapter.Chapter{BID: bid, Number: 1, PublishedAt: &now, Reads: 4}, nil)
		repo.On("RecordRead", ctx, (*uuid.UUID)(nil), bid, 1).Return(false, errors.New("db down"))

		c, err := svc.Get(ctx, nil, bid, 1)
		require.NoError(t, err)
		assert.Equal(t, 4, c.Reads)
	})
}

func TestLastRead(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(uuid.New())
	uid, bid := uuid.New(), uuid.New()

	repo.On("LastRead", ctx, uid, bid).Return(nil, nil).Once()
	_, err := svc.LastRead(ctx, uid, bid)
	assert.ErrorIs(t, err, chapter.ErrNothingRead)

	repo.On("LastRead", ctx, uid, bid).Return(&chapter.LastRead{Number: 7}, nil).Once()
	lr, err := svc.LastRead(ctx, uid, bid)
	require.NoError(t, err)
	assert.Equal(t, 7, lr.Number)
}

func TestCreate_SequentialNumbers(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	bid := uuid.New()
	svc, repo := newService(owner)

	repo.On("Create", ctx, owner, bid, "", "a").Return(1, true, nil).Once()
	repo.On("Create", ctx, owner, bid, "", "b").Return(2, true, nil).Once()

	first, err := svc.Create(ctx, owner, bid, chapter.CreateChapterRequest{Content: "a"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner, bid, chapter.CreateChapterRequest{Content: "b"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, []int{first, second})

	stranger := uuid.New()
	repo.On("Create", ctx, stranger, bid, "", "").Return(0, false, nil)
	_, err = svc.Create(ctx, stranger, bid, chapter.CreateChapterRequest{})
	assert.ErrorIs(t, err, chapter.ErrBookNotOwned)
}

func TestMutationsByNonOwner(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	bid := uuid.New()
	svc, repo := newService(owner)

	repo.On("Update", ctx, stranger, bid, 1, mock.Anything).Return(false, nil)
	repo.On("Delete", ctx, stranger, bid, 1).Return(false, nil)

	assert.ErrorIs(t, svc.Update(ctx, stranger, bid, 1, chapter.UpdateChapterRequest{}), chapter.ErrChapterNotOwned)
	assert.ErrorIs(t, svc.Delete(ctx, stranger, bid, 1), chapter.ErrChapterNotOwned)
}

func TestPublishTransitions(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	bid := uuid.New()

	tests := []struct {
		name    string
		publish bool
		owns    bool
		want    error
	}{
		{name: "already published", publish: true, owns: true, want: chapter.ErrAlreadyPublished},
		{name: "already unpublished", publish: false, owns: true, want: chapter.ErrAlreadyUnpublished},
		{name: "not owned", publish: true, want: chapter.ErrChapterNotOwned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(owner)
			repo.On("SetPublished", ctx, owner, bid, 1, tt.publish).Return(false, nil)
			repo.On("UserOwnsChapter", ctx, bid, 1, owner).Return(tt.owns, nil)

			var err error
			if tt.publish {
				err = svc.Publish(ctx, owner, bid, 1)
			} else {
				err = svc.Unpublish(ctx, owner, bid, 1)
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLikes(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	bid := uuid.New()

	t.Run("like returns the new count", func(t *testing.T) {
		svc, repo := newService(owner)
		repo.On("Like", ctx, owner, bid, 1).Return(3, true, nil)

		likes, err := svc.Like(ctx, owner, bid, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, likes)
	})

	t.Run("unpublished chapter cannot be liked even by its owner", func(t *testing.T) {
		svc, repo := newService(owner)
		repo.On("Like", ctx, owner, bid, 2).Return(0, false, nil)
		repo.On("Exists", ctx, bid, 2, true).Return(false, nil)

		_, err := svc.Like(ctx, owner, bid, 2)
		assert.ErrorIs(t, err, chapter.ErrChapterNotFound)
	})

	t.Run("double like", func(t *testing.T) {
		svc, repo := newService(owner)
		repo.On("Like", ctx, owner, bid, 1).Return(0, false, nil)
		repo.On("Exists", ctx, bid, 1, true).Return(true, nil)

		_, err := svc.Like(ctx, owner, bid, 1)
		assert.ErrorIs(t, err, chapter.ErrAlreadyLiked)
	})

	t.Run("unlike without like", func(t *testing.T) {
		svc, repo := newService(owner)
		repo.On("Unlike", ctx, owner, bid, 1).Return(0, false, nil)
		repo.On("Exists", ctx, bid, 1, true).Return(true, nil)

		_, err := svc.Unlike(ctx, owner, bid, 1)
		assert.ErrorIs(t, err, chapter.ErrNotLiked)
	})
}
