// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/pkg/ident"
)

// # Service Layer

// Service orchestrates business logic for the user's own account.
type Service struct {
	accountRepository AccountRepository
	uploader          media.Uploader
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, uploader media.Uploader) *Service {
	return &Service{
		accountRepository: accountRepo,
		uploader:          uploader,
	}
}

// # Profile Management

/*
GetCurrentUser retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: apperr.NotFound or execution failures
*/
func (service *Service) GetCurrentUser(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_get_current_user_failed: %w", err)
	}
	return user, nil
}

// UpdateDetailsInput carries the editable identity fields.
type UpdateDetailsInput struct {
	FullName string
	Email    string
}

/*
UpdateAccountDetails overwrites the user's full name and email.

Description: An email held by a different account is a conflict. Keeping
one's own email is not.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateDetailsInput

Returns:
  - *auth.User: The updated profile
  - error: ValidationError, Conflict, NotFound or storage failures
*/
func (service *Service) UpdateAccountDetails(context context.Context, userID string, input UpdateDetailsInput) (*auth.User, error) {
	validator := &validate.Validator{}
	validator.Required(auth.FieldFullName, input.FullName).
		Required(auth.FieldEmail, input.Email)
	if err := validator.ErrWithMessage(MsgFieldsRequired); err != nil {
		return nil, err
	}

	email := ident.Normalize(input.Email)
	validator.Email(auth.FieldEmail, email)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	owner, err := service.accountRepository.FindByEmail(context, email)
	switch {
	case err == nil && owner.ID != userID:
		return nil, apperr.Conflict(MsgEmailTaken)
	case err != nil && !apperr.IsNotFound(err):
		return nil, fmt.Errorf("account_service_email_lookup_failed: %w", err)
	}

	err = service.accountRepository.UpdateDetails(context, userID, strings.TrimSpace(input.FullName), email)
	if err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict(MsgEmailTaken).WithCause(err)
		}
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_update_details_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "account_details_updated", slog.String("user_id", userID))
	return service.GetCurrentUser(context, userID)
}

// # Media Management

/*
UpdateAvatar uploads a new avatar and stores its URL.

The previous object is left in storage.

Parameters:
  - context: context.Context
  - userID: string
  - file: *media.File (nil when the part was missing)

Returns:
  - *auth.User: The updated profile
  - error: ValidationError, UploadError or storage failures
*/
func (service *Service) UpdateAvatar(context context.Context, userID string, file *media.File) (*auth.User, error) {
	if file == nil {
		return nil, validate.RequiredError(auth.FieldAvatar, MsgAvatarMissing)
	}

	url, err := media.UploadURL(context, service.uploader, file)
	if err != nil {
		return nil, apperr.UploadFailed(MsgAvatarUploadFailed).WithCause(err)
	}

	return service.storeImage(context, userID, "avatar", url, service.accountRepository.UpdateAvatar)
}

// UpdateCoverImage uploads a new cover image and stores its URL.
func (service *Service) UpdateCoverImage(context context.Context, userID string, file *media.File) (*auth.User, error) {
	if file == nil {
		return nil, validate.RequiredError(auth.FieldCoverImage, MsgCoverMissing)
	}

	url, err := media.UploadURL(context, service.uploader, file)
	if err != nil {
		return nil, apperr.UploadFailed(MsgCoverUploadFailed).WithCause(err)
	}

	return service.storeImage(context, userID, "cover_image", url, service.accountRepository.UpdateCoverImage)
}

// storeImage persists an uploaded URL through persist and re-reads the user.
func (service *Service) storeImage(
	context context.Context,
	userID, kind, url string,
	persist func(context.Context, string, string) error,
) (*auth.User, error) {
	if err := persist(context, userID, url); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_update_%s_failed: %w", kind, err)
	}

	ctxutil.GetLogger(context).InfoContext(context, kind+"_updated", slog.String("user_id", userID))
	return service.GetCurrentUser(context, userID)
}
