// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Client Messages

const (
	MsgAllFieldsRequired   = "All fields are required"
	MsgUserExists          = "User already exists with the provided email or username"
	MsgAvatarRequired      = "Avatar file is required"
	MsgAvatarUploadFailed  = "Error while uploading the avatar"
	MsgRegisterFailed      = "Something went wrong while registering the user"
	MsgIdentityRequired    = "Email or username is required"
	MsgPasswordRequired    = "Password is required"
	MsgUserNotExist        = "User does not exist"
	MsgIncorrectPassword   = "Incorrect password"
	MsgUnauthorizedRequest = "Unauthorized request"
	MsgInvalidRefreshToken = "Invalid refresh token"
	MsgRefreshTokenReused  = "Refresh token is expired or used"
	MsgInvalidOldPassword  = "Invalid old password"
	MsgPasswordTooLong     = "Password must be at most 72 bytes"
	MsgResetTokenInvalid   = "Reset token is invalid or expired"
	MsgResetMailSubject    = "Reset your vidtube password"
	MsgRegistered          = "User registered successfully"
	MsgLoggedIn            = "User logged in successfully"
	MsgLoggedOut           = "User logged out successfully"
	MsgTokenRefreshed      = "Access token refreshed successfully"
	MsgPasswordChanged     = "Password changed successfully"
	MsgResetRequested      = "If the email is registered, a reset link has been sent"
	MsgPasswordReset       = "Password has been reset successfully"
)
