package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pitchpay/internal/model"
	"pitchpay/internal/repository"
	apperrors "pitchpay/pkg/app_errors"
)

// nicknameChangeWindow is the rolling window within which a nickname may be
// changed at most once.
const nicknameChangeWindow = 30 * 24 * time.Hour

type UserService interface {
	ChangeNickname(ctx context.Context, caller *model.User, nickname string) (*model.User, error)
	// GrantEventCreation toggles the organizer capability; admin only.
	GrantEventCreation(ctx context.Context, caller *model.User, userID int, allowed bool) error
}

type UserServiceImpl struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &UserServiceImpl{repo: repo}
}

func (s *UserServiceImpl) ChangeNickname(ctx context.Context, caller *model.User, nickname string) (*model.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, apperrors.ErrInvalidInput
	}
	if nickname == caller.Nickname {
		return caller, nil
	}

	if caller.NicknameChangedAt != nil {
		elapsed := time.Since(*caller.NicknameChangedAt)
		if elapsed < nicknameChangeWindow {
			remaining := 30 - int(elapsed.Hours()/24)
			return nil, &apperrors.RateLimitedError{DaysRemaining: remaining}
		}
	}

	if existing, err := s.repo.FindByNickname(ctx, nickname); err == nil && existing.ID != caller.ID {
		return nil, apperrors.ErrNicknameTaken
	} else if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	return s.repo.UpdateNickname(ctx, caller.ID, nickname, time.Now().UTC())
}

func (s *UserServiceImpl) GrantEventCreation(ctx context.Context, caller *model.User, userID int, allowed bool) error {
	if !caller.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return s.repo.SetCanCreateEvents(ctx, userID, allowed)
}
