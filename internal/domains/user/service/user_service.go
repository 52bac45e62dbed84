package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"serialfic-backend/internal/config"
	"serialfic-backend/internal/domains/user"
	"serialfic-backend/internal/infrastructure/imagehost"
	"serialfic-backend/internal/infrastructure/queue"
	"serialfic-backend/internal/shared/apperror"
	"serialfic-backend/internal/shared/listing"
	"serialfic-backend/internal/shared/utils"
	"serialfic-backend/pkg/cache"
	"serialfic-backend/pkg/logger"
)

const (
	profileCacheTTL = 10 * time.Minute
	resetCodeBytes  = 6
)

func profileCacheKey(uid uuid.UUID) string {
	return "user:profile:" + uid.String()
}

type userService struct {
	repo     user.Repository
	sessions user.SessionRevoker
	images   imagehost.Host
	cleaner  queue.ImageCleaner
	cache    cache.Cache
	cfg      config.AuthConfig
}

func NewUserService(
	repo user.Repository,
	sessions user.SessionRevoker,
	images imagehost.Host,
	cleaner queue.ImageCleaner,
	cache cache.Cache,
	cfg config.AuthConfig,
) user.Service {
	return &userService{
		repo:     repo,
		sessions: sessions,
		images:   images,
		cleaner:  cleaner,
		cache:    cache,
		cfg:      cfg,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Signup(ctx context.Context, req user.SignupRequest) (*user.SignupResponse, error) {
	req.Normalize()
	if err := utils.ValidationError(req.Validate()); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	codes, err := generateResetCodes(s.cfg.ResetCodeCount)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	codeHashes, err := s.hashAll(codes)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	uid, err := s.repo.CreateWithResetCodes(ctx, &user.User{
		Email:    req.Email,
		Username: req.Username,
		Password: string(hash),
	}, codeHashes)
	if err != nil {
		return nil, apperror.FromDB(err)
	}

	logger.Info("user signed up", map[string]interface{}{"user_id": uid.String()})
	return &user.SignupResponse{User: user.UserRef{UID: uid}, Codes: codes}, nil
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (uuid.UUID, error) {
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return uuid.Nil, apperror.FromDB(err)
	}
	if u == nil {
		return uuid.Nil, user.ErrUsernameNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return uuid.Nil, user.ErrIncorrectPassword
	}
	return u.UID, nil
}

// ChangePassword consumes one reset code and logs the user out everywhere.
func (s *userService) ChangePassword(ctx context.Context, uid uuid.UUID, req user.ChangePasswordRequest) error {
	u, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return apperror.FromDB(err)
	}
	if u == nil {
		return user.ErrUserNotFound
	}

	// 1. Find the stored hash matching the presented code
	hashes, err := s.repo.ResetCodes(ctx, uid)
	if err != nil {
		return apperror.FromDB(err)
	}
	codeHash, ok := matchResetCode(hashes, req.Code)
	if !ok {
		return user.ErrInvalidResetCode
	}

	// 2. Validate the new password
	if err := user.ValidatePassword(req.Password); err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) == nil {
		return user.ErrSamePassword
	}

	// 3. Store it and burn the code
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return apperror.Internal(fmt.Errorf("hash password: %w", err))
	}
	changed, err := s.repo.ChangePassword(ctx, uid, string(hash), codeHash)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !changed {
		return user.ErrInvalidResetCode
	}

	// 4. Force re-login on every device
	if err := s.sessions.RevokeUser(ctx, uid); err != nil {
		return apperror.Internal(fmt.Errorf("revoke sessions: %w", err))
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, uid uuid.UUID) error {
	images, found, err := s.repo.Delete(ctx, uid)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !found {
		return user.ErrUserNotFound
	}

	if err := s.sessions.RevokeUser(ctx, uid); err != nil {
		return apperror.Internal(fmt.Errorf("revoke sessions: %w", err))
	}
	s.forgetProfile(ctx, uid)
	queue.DiscardImages(ctx, s.cleaner, images...)

	logger.Info("user deleted", map[string]interface{}{"user_id": uid.String()})
	return nil
}

// ========================================
// PROFILES
// ========================================

func (s *userService) UpdateProfileImage(ctx context.Context, uid uuid.UUID, req user.ProfileImageRequest) (string, error) {
	url, err := imagehost.Store(ctx, s.images, uid.String(), req.Profile)
	if err != nil {
		return "", err
	}

	previous, found, err := s.repo.SetProfileImage(ctx, uid, url)
	if err != nil {
		queue.DiscardImages(ctx, s.cleaner, url)
		return "", apperror.FromDB(err)
	}
	if !found {
		queue.DiscardImages(ctx, s.cleaner, url)
		return "", user.ErrUserNotFound
	}

	s.forgetProfile(ctx, uid)
	if previous != nil && *previous != url {
		queue.DiscardImages(ctx, s.cleaner, *previous)
	}
	return url, nil
}

// GetProfile is read through the profile cache; every book response embeds
// its author's profile.
func (s *userService) GetProfile(ctx context.Context, uid uuid.UUID) (*user.PublicProfile, error) {
	key := profileCacheKey(uid)

	var cached user.PublicProfile
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("profile cache read failed", err)
	}
	if found {
		return &cached, nil
	}

	u, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	profile := u.Profile()
	if err := s.cache.Set(ctx, key, profile, profileCacheTTL); err != nil {
		logger.Warn("profile cache write failed", err)
	}
	return &profile, nil
}

func (s *userService) GetProfileByUsername(ctx context.Context, username string) (*user.PublicProfile, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if u == nil {
		return nil, user.ErrProfileNotFound
	}
	profile := u.Profile()
	return &profile, nil
}

func (s *userService) ListUsers(ctx context.Context, p listing.Params) ([]user.PublicProfile, error) {
	p.Normalize()
	if err := utils.ValidationError(p.Validate()); err != nil {
		return nil, err
	}

	profiles, err := s.repo.List(ctx, &p)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if profiles == nil {
		profiles = []user.PublicProfile{}
	}
	return profiles, nil
}

func (s *userService) forgetProfile(ctx context.Context, uid uuid.UUID) {
	if err := s.cache.Delete(ctx, profileCacheKey(uid)); err != nil {
		logger.Warn("profile cache invalidation failed", err)
	}
}

// ========================================
// RESET CODES
// ========================================

func generateResetCodes(n int) ([]string, error) {
	codes := make([]string, n)
	buf := make([]byte, resetCodeBytes)
	for i := range codes {
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate reset code: %w", err)
		}
		codes[i] = hex.EncodeToString(buf)
	}
	return codes, nil
}

func (s *userService) hashAll(codes []string) ([]string, error) {
	hashes := make([]string, len(codes))
	for i, code := range codes {
		h, err := bcrypt.GenerateFromPassword([]byte(code), s.cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash reset code: %w", err)
		}
		hashes[i] = string(h)
	}
	return hashes, nil
}

// matchResetCode returns the first stored hash that code matches.
func matchResetCode(hashes []string, code string) (string, bool) {
	for _, h := range hashes {
		err := bcrypt.CompareHashAndPassword([]byte(h), []byte(code))
		if err == nil {
			return h, true
		}
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Warn("malformed reset code hash", err)
		}
	}
	return "", false
}
