package service

import "errors"

var (
	ErrForbidden           = errors.New("you do not have permission to access this resource")
	ErrContactNotFound     = errors.New("contact not found")
	ErrPhoneNotFound       = errors.New("phone not found")
	ErrFileNotFound        = errors.New("file not found")
	ErrDuplicateEmail      = errors.New("email is already in use")
	ErrInvalidCredentials  = errors.New("email or password is not correct")
	ErrNoFile              = errors.New("no file found")
	ErrNoSelectedFile      = errors.New("no selected file")
	ErrExtensionNotAllowed = errors.New("file extension is not allowed")
	ErrFakeFileContent     = errors.New("fake data was uploaded")
)
