package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is an article published by a shelter or admin.
type BlogPost struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuthorID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title         string    `gorm:"size:300;not null"`
	Content       string    `gorm:"type:text;not null"`
	FeaturedImage *string   `gorm:"type:text"`
	PublishedAt   time.Time `gorm:"not null;default:now();index"`

	Author *Account `gorm:"foreignKey:AuthorID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BlogPost) TableName() string { return "blog_posts" }
