package auth

import (
	errs "github.com/giberode/gib/errors"
)

const deviceConflictMessage = "Already logged in on another device"

var (
	ErrInvalidPhone   = errs.WithMessage(errs.BadRequest, "Please enter a valid 10-digit phone number")
	ErrInvalidCode    = errs.WithMessage(errs.BadRequest, "Enter a valid 6-digit OTP")
	ErrFieldsRequired = errs.WithMessage(errs.BadRequest, "All fields are required")
	ErrNotRegistered  = errs.WithMessage(errs.Authentication, "Not registered. Contact GiB admin.")
	ErrDeviceConflict = errs.WithMessage(errs.Authentication, deviceConflictMessage)
	ErrPhoneMismatch  = errs.WithMessage(errs.Authentication, "Phone mismatch.")
	ErrNoVerification = errs.WithMessage(errs.Authentication, "Session expired. Request a new OTP.")
	ErrResendTooSoon  = errs.WithMessage(errs.Authentication, "Please wait before requesting a new OTP.")
	ErrUnexpectedUser = errs.WithMessage(errs.Parse, "Unexpected server response.")
)
