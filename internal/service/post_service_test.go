package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"microblog/internal/errors"
	"microblog/internal/model"
)

func newPostService(users *MockUserRepository, posts *MockPostRepository) PostService {
	return NewPostService(posts, users, &stubTransactor{users: users, posts: posts}, noCache)
}

func TestPostService_Create(t *testing.T) {
	t.Run("unknown owner pre-empts the write", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPosts := new(MockPostRepository)

		mockUsers.On("FindByID", mock.Anything, uint(999)).Return(nil, gorm.ErrRecordNotFound)

		svc := newPostService(mockUsers, mockPosts)
		post, err := svc.Create(context.Background(), "Hi", "Hello", 999)

		assert.ErrorIs(t, err, errors.ErrUserNotFound)
		assert.Nil(t, post)
		mockPosts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("returns the post with author resolved", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPosts := new(MockPostRepository)

		author := model.User{ID: 1, Username: "ana", Email: "ana@example.com"}
		mockUsers.On("FindByID", mock.Anything, uint(1)).Return(&author, nil)
		mockPosts.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).
			Run(func(args mock.Arguments) {
				p := args.Get(1).(*model.Post)
				p.ID = 7
				p.DatePosted = time.Now().UTC()
			}).Return(nil)
		mockPosts.On("FindByID", mock.Anything, uint(7)).Return(&model.Post{
			ID: 7, Title: "Hi", Content: "Hello", UserID: 1,
			DatePosted: time.Now().UTC(), Author: author,
		}, nil)

		svc := newPostService(mockUsers, mockPosts)
		post, err := svc.Create(context.Background(), "Hi", "Hello", 1)

		assert.NoError(t, err)
		assert.NotNil(t, post)
		assert.Equal(t, "ana", post.Author.Username)
		assert.False(t, post.DatePosted.IsZero())

		mockUsers.AssertExpectations(t)
		mockPosts.AssertExpectations(t)
	})
}

func TestPostService_Replace(t *testing.T) {
	posted := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	stored := func() *model.Post {
		return &model.Post{ID: 7, Title: "Hi", Content: "Hello", UserID: 1, DatePosted: posted}
	}

	t.Run("unknown post", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPosts := new(MockPostRepository)

		mockPosts.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)

		svc := newPostService(mockUsers, mockPosts)
		_, err := svc.Replace(context.Background(), 7, "New", "Body", 1)

		assert.ErrorIs(t, err, errors.ErrPostNotFound)
	})

	t.Run("moving to an unknown owner fails before any write", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPosts := new(MockPostRepository)

		mockPosts.On("FindByID", mock.Anything, uint(7)).Return(stored(), nil)
		mockUsers.On("FindByID", mock.Anything, uint(999)).Return(nil, gorm.ErrRecordNotFound)

		svc := newPostService(mockUsers, mockPosts)
		_, err := svc.Replace(context.Background(), 7, "New", "Body", 999)

		assert.ErrorIs(t, err, errors.ErrUserNotFound)
		mockPosts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("same owner skips the referential lookup", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPosts := new(MockPostRepository)

		mockPosts.On("FindByID", mock.Anything, uint(7)).Return(stored(), nil)
		mockPosts.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).
			Run(func(args mock.Arguments) {
				p := args.Get(1).(*model.Post)
				assert.Equal(t, "New", p.Title)
				assert.Equal(t, "Body", p.Content)
				assert.Equal(t, posted, p.DatePosted)
			}).Return(nil)

		svc := newPostService(mockUsers, mockPosts)
		post, err := svc.Replace(context.Background(), 7, "New", "Body", 1)

		assert.NoError(t, err)
		assert.NotNil(t, post)
		mockUsers.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestPostService_Update(t *testing.T) {
	posted := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("merges only the supplied fields", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPosts := new(MockPostRepository)

		mockPosts.On("FindByID", mock.Anything, uint(7)).Return(&model.Post{
			ID: 7, Title: "Hi", Content: "Hello", UserID: 1, DatePosted: posted,
		}, nil)
		mockPosts.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

		svc := newPostService(mockUsers, mockPosts)
		post, err := svc.Update(context.Background(), 7, PostUpdate{Title: strptr("Renamed")})

		assert.NoError(t, err)
		assert.Equal(t, "Renamed", post.Title)
		assert.Equal(t, "Hello", post.Content)
		assert.Equal(t, posted, post.DatePosted)
	})

	t.Run("unknown post", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPosts := new(MockPostRepository)

		mockPosts.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

		svc := newPostService(mockUsers, mockPosts)
		_, err := svc.Update(context.Background(), 9, PostUpdate{Title: strptr("Renamed")})

		assert.ErrorIs(t, err, errors.ErrPostNotFound)
	})
}

func TestPostService_Delete(t *testing.T) {
	t.Run("unknown post stays unknown on repeat deletes", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPosts := new(MockPostRepository)

		mockPosts.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

		svc := newPostService(mockUsers, mockPosts)
		assert.ErrorIs(t, svc.Delete(context.Background(), 9), errors.ErrPostNotFound)
		assert.ErrorIs(t, svc.Delete(context.Background(), 9), errors.ErrPostNotFound)
		mockPosts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("removes an existing post", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPosts := new(MockPostRepository)

		mockPosts.On("FindByID", mock.Anything, uint(7)).Return(&model.Post{ID: 7}, nil)
		mockPosts.On("Delete", mock.Anything, uint(7)).Return(nil)

		svc := newPostService(mockUsers, mockPosts)
		assert.NoError(t, svc.Delete(context.Background(), 7))
		mockPosts.AssertExpectations(t)
	})
}
