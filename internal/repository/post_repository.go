package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"microblog/internal/model"
)

// PostRepository defines post persistence operations. Every read preloads
// the author so posts are never returned half-resolved.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	ListByUserID(ctx context.Context, userID uint) ([]model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository builds a GORM-backed post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Post{}, id).Error
}

func (r *postRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Post{}).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns all posts newest-first. The empty result is a non-nil slice
// so an empty store serializes as an empty JSON array.
func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	if err := r.db.WithContext(ctx).Preload("Author").
		Order("date_posted DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByUserID(ctx context.Context, userID uint) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	if err := r.db.WithContext(ctx).Preload("Author").
		Where("user_id = ?", userID).
		Order("date_posted DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
