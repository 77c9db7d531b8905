// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/mail"
	"github.com/taibuivan/vidtube/internal/platform/media"
	"github.com/taibuivan/vidtube/internal/platform/metrics"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/ident"
	"github.com/taibuivan/vidtube/pkg/pointer"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer is the subset of [sec.TokenService] the session flows depend on.
type TokenIssuer interface {
	GenerateAccessToken(subject sec.AccessSubject) (string, error)
	GenerateRefreshToken(userID string) (string, error)
	Verify(token string, kind sec.TokenKind) (*sec.AuthClaims, error)
	TTL(kind sec.TokenKind) time.Duration
}

// EventRecorder counts authentication events.
type EventRecorder interface {
	AuthEvent(event string)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	resetTokenRepository ResetTokenRepository
	tokenIssuer          TokenIssuer
	uploader             media.Uploader
	mailer               mail.Mailer
	events               EventRecorder
	resetURLBase         string
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	resetRepo ResetTokenRepository,
	tokenIssuer TokenIssuer,
	uploader media.Uploader,
	mailer mail.Mailer,
	events EventRecorder,
	resetURLBase string,
) *Service {
	return &Service{
		userRepository:       userRepo,
		resetTokenRepository: resetRepo,
		tokenIssuer:          tokenIssuer,
		uploader:             uploader,
		mailer:               mailer,
		events:               events,
		resetURLBase:         resetURLBase,
	}
}

// TokenTTL exposes the lifetime of a token kind for cookie expiry.
func (service *Service) TokenTTL(kind sec.TokenKind) time.Duration {
	return service.tokenIssuer.TTL(kind)
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     *media.File
	CoverImage *media.File
}

/*
Register validates, uploads media, hashes, and persists a brand new user account.

Description: Identities are normalized before the uniqueness pre-check. The
avatar is mandatory; a failed cover upload only drops the cover.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: The stored entity, re-read from the store
  - error: ValidationError, Conflict, UploadError or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	defer closeFiles(input.Avatar, input.CoverImage)

	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName).
		Required(FieldEmail, input.Email).
		Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password)
	if err := validator.ErrWithMessage(MsgAllFieldsRequired); err != nil {
		return nil, err
	}

	username := ident.Normalize(input.Username)
	email := ident.Normalize(input.Email)

	validator.Email(FieldEmail, email).Username(FieldUsername, username)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// The unique indexes still decide a concurrent race; this gives the common case a clean error.
	_, err := service.userRepository.FindByUsernameOrEmail(context, username, email)
	if err == nil {
		return nil, apperr.Conflict(MsgUserExists)
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	if input.Avatar == nil {
		return nil, validate.RequiredError(FieldAvatar, MsgAvatarRequired)
	}

	avatarURL, err := media.UploadURL(context, service.uploader, input.Avatar)
	if err != nil {
		return nil, apperr.UploadFailed(MsgAvatarUploadFailed).WithCause(err)
	}

	logger := ctxutil.GetLogger(context)

	coverURL := ""
	if input.CoverImage != nil {
		coverURL, err = media.UploadURL(context, service.uploader, input.CoverImage)
		if err != nil {
			logger.WarnContext(context, "cover_upload_failed", slog.String("error", err.Error()))
		}
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		Avatar:       avatarURL,
		CoverImage:   coverURL,
		WatchHistory: []string{},
		PasswordHash: passwordHash,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	created, err := service.userRepository.FindByID(context, user.ID)
	if err != nil {
		return nil, apperr.InternalMessage(MsgRegisterFailed, err)
	}

	service.events.AuthEvent(metrics.EventRegister)
	logger.InfoContext(context, "user_registered", slog.String("user_id", created.ID))

	return created, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
//
// Username wins when both identities are supplied.
type LoginInput struct {
	Email    string
	Username string
	Password string
}

/*
Login validates user credentials and issues a fresh token pair.

Description: The refresh token digest replaces any previous one, so logging
in elsewhere ends the older session at its next refresh.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: User plus both tokens
  - error: ValidationError, NotFound, Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	username := ident.Normalize(input.Username)
	email := ident.Normalize(input.Email)

	if username == "" && email == "" {
		return nil, apperr.ValidationError(MsgIdentityRequired,
			apperr.FieldError{Field: FieldUsername, Message: MsgIdentityRequired},
			apperr.FieldError{Field: FieldEmail, Message: MsgIdentityRequired},
		)
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, validate.RequiredError(FieldPassword, MsgPasswordRequired)
	}

	var user *User
	var err error
	if username != "" {
		user, err = service.userRepository.FindByUsername(context, username)
	} else {
		user, err = service.userRepository.FindByEmail(context, email)
	}

	if err != nil {
		if apperr.IsNotFound(err) {
			service.events.AuthEvent(metrics.EventLoginFailure)
			return nil, apperr.NotFound(MsgUserNotExist)
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.events.AuthEvent(metrics.EventLoginFailure)
		return nil, apperr.Unauthorized(MsgIncorrectPassword)
	}

	session, err := service.issueSession(context, user)
	if err != nil {
		return nil, err
	}
	session.User = user

	service.events.AuthEvent(metrics.EventLoginSuccess)
	ctxutil.GetLogger(context).InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return session, nil
}

/*
Logout clears the stored refresh token reference.

Description: Idempotent. A user that no longer exists has nothing to revoke.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Storage failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	err := service.userRepository.SetRefreshToken(context, userID, nil)
	if err != nil && !apperr.IsNotFound(err) {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.events.AuthEvent(metrics.EventLogout)
	ctxutil.GetLogger(context).InfoContext(context, "user_logged_out", slog.String("user_id", userID))

	return nil
}

// # Session Management

/*
Refresh implements refresh token rotation against the single stored reference.

Description: The presented token must verify with the refresh secret and
match the stored digest. A match is immediately replaced, so each refresh
token can be exchanged exactly once.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: New token pair (User is nil)
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, apperr.Unauthorized(MsgUnauthorizedRequest)
	}

	claims, err := service.tokenIssuer.Verify(refreshToken, sec.TokenRefresh)
	if err != nil {
		service.events.AuthEvent(metrics.EventRefreshFailure)
		return nil, apperr.Unauthorized(MsgInvalidRefreshToken).WithCause(err)
	}

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			service.events.AuthEvent(metrics.EventRefreshFailure)
			return nil, apperr.Unauthorized(MsgInvalidRefreshToken)
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	if user.RefreshToken == nil || !sec.TokenMatches(refreshToken, *user.RefreshToken) {
		service.events.AuthEvent(metrics.EventRefreshFailure)
		ctxutil.GetLogger(context).WarnContext(context, "refresh_token_rejected", slog.String("user_id", user.ID))
		return nil, apperr.Unauthorized(MsgRefreshTokenReused)
	}

	session, err := service.issueSession(context, user)
	if err != nil {
		return nil, err
	}

	service.events.AuthEvent(metrics.EventRefreshSuccess)
	ctxutil.GetLogger(context).InfoContext(context, "session_rotated", slog.String("user_id", user.ID))

	return session, nil
}

// issueSession signs a new token pair and stores the refresh digest.
func (service *Service) issueSession(context context.Context, user *User) (*Session, error) {
	accessToken, err := service.tokenIssuer.GenerateAccessToken(sec.AccessSubject{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	})
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenIssuer.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	digest := pointer.To(sec.HashToken(refreshToken))
	if err := service.userRepository.SetRefreshToken(context, user.ID, digest); err != nil {
		return nil, fmt.Errorf("auth_service_store_refresh_token_failed: %w", err)
	}
	user.RefreshToken = digest

	return &Session{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// # Password Management

// ChangePasswordInput carries the old and new password.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

/*
ChangePassword verifies the current password and stores a new hash.

Parameters:
  - context: context.Context
  - userID: string
  - input: ChangePasswordInput

Returns:
  - error: ValidationError, NotFound, Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID string, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, constants.MinPasswordLength)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(input.OldPassword, user.PasswordHash) {
		return apperr.Unauthorized(MsgInvalidOldPassword)
	}

	passwordHash, err := hashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	if err := service.userRepository.UpdatePassword(context, userID, passwordHash); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	service.events.AuthEvent(metrics.EventPasswordChanged)
	ctxutil.GetLogger(context).InfoContext(context, "password_changed", slog.String("user_id", userID))

	return nil
}

// # Password Recovery

/*
ForgotPassword starts the reset flow for an email address.

Description: Unknown addresses succeed silently so the endpoint cannot be used
to enumerate accounts. Only the token digest is stored. A mail delivery
failure is logged, not returned.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: ValidationError or storage failures
*/
func (service *Service) ForgotPassword(context context.Context, email string) error {
	email = ident.Normalize(email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	if err := validator.Err(); err != nil {
		return err
	}

	logger := ctxutil.GetLogger(context)

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			logger.DebugContext(context, "password_reset_unknown_email")
			return nil
		}
		return fmt.Errorf("auth_service_forgot_password_lookup_failed: %w", err)
	}

	token, err := sec.GenerateSecureToken(constants.ResetTokenBytes)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, sec.HashToken(token), user.ID, constants.ResetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	link := service.resetLink(token)
	err = service.mailer.Send(context, mail.Message{
		To:      user.Email,
		Subject: MsgResetMailSubject,
		Text: fmt.Sprintf("Hi %s,\n\nUse the link below to choose a new password. It expires in %s.\n\n%s\n",
			user.FullName, constants.ResetTokenTTL, link),
	})
	if err != nil {
		logger.ErrorContext(context, "reset_mail_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	logger.InfoContext(context, "password_reset_requested", slog.String("user_id", user.ID))
	return nil
}

// resetLink appends the token to the configured reset page URL.
func (service *Service) resetLink(token string) string {
	separator := "?"
	if strings.Contains(service.resetURLBase, "?") {
		separator = "&"
	}
	return service.resetURLBase + separator + "token=" + url.QueryEscape(token)
}

// ResetPasswordInput carries the emailed token and the new password.
type ResetPasswordInput struct {
	Token    string
	Password string
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, stores the new hash, clears the refresh
token reference so every session must log in again, then consumes the token.

Parameters:
  - context: context.Context
  - input: ResetPasswordInput

Returns:
  - error: ValidationError or storage failures
*/
func (service *Service) ResetPassword(context context.Context, input ResetPasswordInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, constants.MinPasswordLength)
	if err := validator.Err(); err != nil {
		return err
	}

	digest := sec.HashToken(input.Token)
	userID, err := service.resetTokenRepository.Get(context, digest)
	if err != nil {
		if apperr.IsNotFound(err) {
			return validate.RequiredError(FieldToken, MsgResetTokenInvalid)
		}
		return fmt.Errorf("auth_service_reset_token_lookup_failed: %w", err)
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return err
	}

	if err := service.userRepository.UpdatePassword(context, userID, passwordHash); err != nil {
		if apperr.IsNotFound(err) {
			return validate.RequiredError(FieldToken, MsgResetTokenInvalid)
		}
		return fmt.Errorf("auth_service_reset_password_failed: %w", err)
	}

	if err := service.userRepository.SetRefreshToken(context, userID, nil); err != nil {
		return fmt.Errorf("auth_service_reset_revoke_failed: %w", err)
	}

	logger := ctxutil.GetLogger(context)
	if err := service.resetTokenRepository.Delete(context, digest); err != nil {
		logger.WarnContext(context, "reset_token_delete_failed", slog.String("error", err.Error()))
	}

	service.events.AuthEvent(metrics.EventPasswordReset)
	logger.InfoContext(context, "password_reset", slog.String("user_id", userID))

	return nil
}

// # Helpers

// hashPassword maps bcrypt's length limit to a client error.
func hashPassword(password string) (string, error) {
	hash, err := sec.HashPassword(password)
	if err != nil {
		if errors.Is(err, sec.ErrPasswordTooLong) {
			return "", validate.RequiredError(FieldPassword, MsgPasswordTooLong)
		}
		return "", fmt.Errorf("auth_service_hash_failed: %w", err)
	}
	return hash, nil
}

// closeFiles releases any multipart parts that were not handed to the uploader.
func closeFiles(files ...*media.File) {
	for _, file := range files {
		if file != nil {
			_ = file.Close()
		}
	}
}
