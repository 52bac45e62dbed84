package service

import (
	"context"
	"time"

	"serialfic-backend/internal/domains/tag"
	"serialfic-backend/internal/shared/apperror"
	"serialfic-backend/internal/shared/utils"
	"serialfic-backend/pkg/cache"
	"serialfic-backend/pkg/logger"
)

const (
	tagsCacheKey = "tags:all"
	tagsCacheTTL = time.Hour
)

// tagService keeps the tag registry cached as one list; it changes rarely
// and is read by every book editor.
type tagService struct {
	repo  tag.Repository
	cache cache.Cache
}

func NewTagService(repo tag.Repository, cache cache.Cache) tag.Service {
	return &tagService{repo: repo, cache: cache}
}

func (s *tagService) Create(ctx context.Context, req tag.TagRequest) error {
	req.Normalize()
	if err := utils.ValidationError(req.Validate()); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, req.Tag); err != nil {
		return apperror.FromDB(err)
	}

	if err := s.cache.Delete(ctx, tagsCacheKey); err != nil {
		logger.Warn("tag cache invalidation failed", err)
	}
	return nil
}

func (s *tagService) List(ctx context.Context) ([]string, error) {
	var tags []string
	found, err := s.cache.Get(ctx, tagsCacheKey, &tags)
	if err != nil {
		logger.Warn("tag cache read failed", err)
	}
	if found {
		return tags, nil
	}

	tags, err = s.repo.List(ctx)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if tags == nil {
		tags = []string{}
	}

	if err := s.cache.Set(ctx, tagsCacheKey, tags, tagsCacheTTL); err != nil {
		logger.Warn("tag cache write failed", err)
	}
	return tags, nil
}
