package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"microblog/internal/errors"
	"microblog/internal/model"
	"microblog/internal/repository"
)

const postCacheTTL = 5 * time.Minute

// PostUpdate carries the fields of a partial post update. The owner cannot
// change in this mode; moving a post to another user requires a full replace.
type PostUpdate struct {
	Title   *string
	Content *string
}

// PostService owns the post lifecycle and the referential check against the
// user set.
type PostService interface {
	Create(ctx context.Context, title, content string, userID uint) (*model.Post, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Replace(ctx context.Context, id uint, title, content string, userID uint) (*model.Post, error)
	Update(ctx context.Context, id uint, update PostUpdate) (*model.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
	tx    repository.Transactor
	cache Cache
}

// NewPostService builds a PostService.
func NewPostService(posts repository.PostRepository, users repository.UserRepository, tx repository.Transactor, cache Cache) PostService {
	return &postService{posts: posts, users: users, tx: tx, cache: cache}
}

func postCacheKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// Create persists a new post once its owner is known to exist. The
// referential check and the insert share one transaction.
func (s *postService) Create(ctx context.Context, title, content string, userID uint) (*model.Post, error) {
	var post *model.Post
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, posts repository.PostRepository) error {
		if _, err := users.FindByID(ctx, userID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrUserNotFound
			}
			return err
		}

		created := &model.Post{Title: title, Content: content, UserID: userID}
		if err := posts.Create(ctx, created); err != nil {
			return err
		}

		// reload so the author comes back resolved
		found, err := posts.FindByID(ctx, created.ID)
		if err != nil {
			return err
		}
		post = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	if data := s.cache.Get(ctx, postCacheKey(id)); data != nil {
		var cached model.Post
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPostNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(post); err == nil {
		s.cache.Set(ctx, postCacheKey(id), payload, postCacheTTL)
	}
	return post, nil
}

func (s *postService) List(ctx context.Context) ([]model.Post, error) {
	return s.posts.List(ctx)
}

// Replace overwrites title, content, and owner unconditionally. Changing the
// owner requires the new user to exist; DatePosted is never touched.
func (s *postService) Replace(ctx context.Context, id uint, title, content string, userID uint) (*model.Post, error) {
	var post *model.Post
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, posts repository.PostRepository) error {
		found, err := posts.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrPostNotFound
			}
			return err
		}

		if userID != found.UserID {
			if _, err := users.FindByID(ctx, userID); err != nil {
				if err == gorm.ErrRecordNotFound {
					return errors.ErrUserNotFound
				}
				return err
			}
		}

		found.Title = title
		found.Content = content
		found.UserID = userID
		if err := posts.Update(ctx, found); err != nil {
			return err
		}

		// reload so the author reflects the possibly-new owner
		reloaded, err := posts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		post = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, postCacheKey(id))
	return post, nil
}

// Update merges only the supplied fields.
func (s *postService) Update(ctx context.Context, id uint, update PostUpdate) (*model.Post, error) {
	var post *model.Post
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, _ repository.UserRepository, posts repository.PostRepository) error {
		found, err := posts.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrPostNotFound
			}
			return err
		}

		if update.Title != nil {
			found.Title = *update.Title
		}
		if update.Content != nil {
			found.Content = *update.Content
		}

		if err := posts.Update(ctx, found); err != nil {
			return err
		}
		post = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, postCacheKey(id))
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id uint) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, _ repository.UserRepository, posts repository.PostRepository) error {
		if _, err := posts.FindByID(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrPostNotFound
			}
			return err
		}
		return posts.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cache.Delete(ctx, postCacheKey(id))
	return nil
}
