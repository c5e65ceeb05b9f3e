package blog

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

// AuthorInfo is the public subset of the author embedded in post responses.
type AuthorInfo struct {
	ID          uuid.UUID  `json:"id"`
	Username    *string    `json:"username,omitempty"`
	ShelterName *string    `json:"shelterName,omitempty"`
	Role        enums.Role `json:"role"`
	Avatar      *string    `json:"avatar,omitempty"`
}

// PostDTO is the transport shape of a blog article.
type PostDTO struct {
	ID            uuid.UUID   `json:"id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	FeaturedImage *string     `json:"featuredImage,omitempty"`
	AuthorID      uuid.UUID   `json:"authorId"`
	PublishedAt   time.Time   `json:"publishedAt"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Author        *AuthorInfo `json:"author,omitempty"`
}

// CreatePostRequest carries a new article.
type CreatePostRequest struct {
	Title         string  `json:"title" validate:"required"`
	Content       string  `json:"content" validate:"required"`
	FeaturedImage *string `json:"featuredImage,omitempty"`
}

// UpdatePostRequest is a sparse patch; only provided fields are written.
type UpdatePostRequest struct {
	Title         *string `json:"title,omitempty"`
	Content       *string `json:"content,omitempty"`
	FeaturedImage *string `json:"featuredImage,omitempty"`
}

func fromModel(p *models.BlogPost) *PostDTO {
	if p == nil {
		return nil
	}

	dto := &PostDTO{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		FeaturedImage: p.FeaturedImage,
		AuthorID:      p.AuthorID,
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if p.Author != nil {
		dto.Author = &AuthorInfo{
			ID:          p.Author.ID,
			Username:    p.Author.Username,
			ShelterName: p.Author.ShelterName,
			Role:        p.Author.Role,
			Avatar:      p.Author.Avatar,
		}
	}

	return dto
}
