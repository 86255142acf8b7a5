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

const userCacheTTL = 5 * time.Minute

// UserUpdate carries the fields of a partial user update. A nil field was
// not supplied by the caller and is left untouched.
type UserUpdate struct {
	Username  *string
	Email     *string
	ImageFile *string
}

// UserService owns the user lifecycle and its uniqueness invariants.
type UserService interface {
	Create(ctx context.Context, username, email string) (*model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	Posts(ctx context.Context, id uint) ([]model.Post, error)
	Update(ctx context.Context, id uint, update UserUpdate) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	users repository.UserRepository
	posts repository.PostRepository
	tx    repository.Transactor
	cache Cache
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository, posts repository.PostRepository, tx repository.Transactor, cache Cache) UserService {
	return &userService{users: users, posts: posts, tx: tx, cache: cache}
}

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Create persists a new user. Username uniqueness is checked before email,
// and the first violation found is the one reported.
func (s *userService) Create(ctx context.Context, username, email string) (*model.User, error) {
	user := &model.User{Username: username, Email: email}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, _ repository.PostRepository) error {
		if err := checkUsernameFree(ctx, users, username); err != nil {
			return err
		}
		if err := checkEmailFree(ctx, users, email); err != nil {
			return err
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	user.ResolveImagePath()
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	if data := s.cache.Get(ctx, userCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// Posts lists the user's posts, authors resolved. The user must exist; an
// existing user with no posts yields an empty list, not an error.
func (s *userService) Posts(ctx context.Context, id uint) ([]model.Post, error) {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return s.posts.ListByUserID(ctx, id)
}

// Update merges only the supplied fields. Uniqueness is re-checked only when
// a supplied value differs from the stored one, so resubmitting the current
// username or email is not a conflict.
func (s *userService) Update(ctx context.Context, id uint, update UserUpdate) (*model.User, error) {
	var user *model.User
	staleKeys := []string{userCacheKey(id)}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, posts repository.PostRepository) error {
		found, err := users.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrUserNotFound
			}
			return err
		}

		changed := false
		if update.Username != nil && *update.Username != found.Username {
			if err := checkUsernameFree(ctx, users, *update.Username); err != nil {
				return err
			}
			found.Username = *update.Username
			changed = true
		}
		if update.Email != nil && *update.Email != found.Email {
			if err := checkEmailFree(ctx, users, *update.Email); err != nil {
				return err
			}
			found.Email = *update.Email
			changed = true
		}
		if update.ImageFile != nil && *update.ImageFile != found.ImageFile {
			found.ImageFile = *update.ImageFile
			changed = true
		}

		if changed {
			// cached posts embed the author, so they go stale with the user
			owned, err := posts.ListByUserID(ctx, id)
			if err != nil {
				return err
			}
			for _, post := range owned {
				staleKeys = append(staleKeys, postCacheKey(post.ID))
			}
		}

		if err := users.Update(ctx, found); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, staleKeys...)
	user.ResolveImagePath()
	return user, nil
}

// Delete removes the user and their posts in one transaction.
func (s *userService) Delete(ctx context.Context, id uint) error {
	staleKeys := []string{userCacheKey(id)}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, posts repository.PostRepository) error {
		if _, err := users.FindByID(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrUserNotFound
			}
			return err
		}

		owned, err := posts.ListByUserID(ctx, id)
		if err != nil {
			return err
		}
		for _, post := range owned {
			staleKeys = append(staleKeys, postCacheKey(post.ID))
		}

		if err := posts.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		return users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cache.Delete(ctx, staleKeys...)
	return nil
}

func checkUsernameFree(ctx context.Context, users repository.UserRepository, username string) error {
	if _, err := users.FindByUsername(ctx, username); err == nil {
		return errors.ErrUsernameExists
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	return nil
}

func checkEmailFree(ctx context.Context, users repository.UserRepository, email string) error {
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return errors.ErrEmailExists
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	return nil
}
