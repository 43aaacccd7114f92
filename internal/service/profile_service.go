package service

import (
	"context"
	"strings"

	"github.com/conduit/internal/apperr"
	"github.com/conduit/internal/db"
	"github.com/conduit/internal/query"
	"gorm.io/gorm"
)

// ProfileService 负责用户主页与关注关系
type ProfileService struct {
	run *Runner
}

// NewProfileService 构造 ProfileService
func NewProfileService(run *Runner) *ProfileService {
	return &ProfileService{run: run}
}

// Get returns username's profile relative to viewer (0 for anonymous).
func (s *ProfileService) Get(ctx context.Context, viewer int64, username string) (*Profile, error) {
	var profile Profile
	err := s.run.inTx(ctx, "profile.get", func(tx *gorm.DB) error {
		row, err := loadProfile(tx, viewer, username)
		if err != nil {
			return err
		}
		profile = row.record()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Follow makes follower follow username. Following twice is a conflict.
func (s *ProfileService) Follow(ctx context.Context, follower int64, username string) (*Profile, error) {
	var profile Profile
	err := s.run.inTx(ctx, "profile.follow", func(tx *gorm.DB) error {
		target, err := loadProfile(tx, follower, username)
		if err != nil {
			return err
		}
		if target.ID == follower {
			return apperr.Conflict("cannot follow yourself")
		}
		if err := tx.Create(&db.Follow{FollowerID: follower, FollowedID: target.ID}).Error; err != nil {
			return conflictOnDuplicate(err, "already following this user")
		}

		row, err := loadProfile(tx, follower, username)
		if err != nil {
			return err
		}
		profile = row.record()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Unfollow removes the follow pair and rejects pairs that do not exist.
func (s *ProfileService) Unfollow(ctx context.Context, follower int64, username string) (*Profile, error) {
	var profile Profile
	err := s.run.inTx(ctx, "profile.unfollow", func(tx *gorm.DB) error {
		target, err := loadProfile(tx, follower, username)
		if err != nil {
			return err
		}
		if !target.Following {
			return apperr.Conflict("not following this user")
		}
		if err := tx.Exec(query.DeleteFollow, follower, target.ID).Error; err != nil {
			return err
		}

		row, err := loadProfile(tx, follower, username)
		if err != nil {
			return err
		}
		profile = row.record()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func loadProfile(tx *gorm.DB, viewer int64, username string) (profileRow, error) {
	var row profileRow
	username = strings.TrimSpace(username)
	if username == "" {
		return row, apperr.NotFound("profile not found")
	}
	result := tx.Raw(query.ProfileByUsername, nullable(viewer), username).Scan(&row)
	if result.Error != nil {
		return row, result.Error
	}
	if result.RowsAffected == 0 {
		return row, apperr.NotFound("profile not found")
	}
	return row, nil
}
