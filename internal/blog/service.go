package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
	pkgerrors "github.com/pawfinder/pawfinder-backend/pkg/errors"
	"github.com/pawfinder/pawfinder-backend/pkg/pagination"
)

// DefaultPageLimit matches the public article grid.
const DefaultPageLimit = 4

// Service defines the behavior needed by the blog controller.
type Service interface {
	List(ctx context.Context, params pagination.Params) ([]PostDTO, pagination.Meta, error)
	GetOne(ctx context.Context, id uuid.UUID) (*PostDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, authorRole enums.Role, req CreatePostRequest) (*PostDTO, error)
	Update(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role, req UpdatePostRequest) (*PostDTO, error)
	Delete(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role) error
}

type repository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	FindByIDWithAuthor(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit, offset int) ([]models.BlogPost, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.BlogPost, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
}

// NewService constructs a blog service with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("blog repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]PostDTO, pagination.Meta, error) {
	params = pagination.Normalize(params, DefaultPageLimit)

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count posts")
	}

	posts, err := s.repo.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list posts")
	}

	dtos := make([]PostDTO, 0, len(posts))
	for i := range posts {
		dtos = append(dtos, *fromModel(&posts[i]))
	}
	return dtos, params.MetaFor(total), nil
}

func (s *service) GetOne(ctx context.Context, id uuid.UUID) (*PostDTO, error) {
	post, err := s.repo.FindByIDWithAuthor(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup post")
	}
	return fromModel(post), nil
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, authorRole enums.Role, req CreatePostRequest) (*PostDTO, error) {
	if authorRole != enums.RoleRefugio && authorRole != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only shelters and admins can publish posts")
	}

	post := &models.BlogPost{
		AuthorID:      authorID,
		Title:         req.Title,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create post")
	}

	created, err := s.repo.FindByIDWithAuthor(ctx, post.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload post")
	}
	return fromModel(created), nil
}

func (s *service) Update(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role, req UpdatePostRequest) (*PostDTO, error) {
	if _, err := s.loadOwned(ctx, id, actorID, actorRole); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.FeaturedImage != nil {
		fields["featured_image"] = *req.FeaturedImage
	}

	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update post")
	}
	return fromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role) error {
	if _, err := s.loadOwned(ctx, id, actorID, actorRole); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete post")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role) (*models.BlogPost, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup post")
	}
	if post.AuthorID != actorID && actorRole != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to manage this post")
	}
	return post, nil
}
