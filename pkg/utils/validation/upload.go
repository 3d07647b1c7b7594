package validation

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var (
	ErrFileSize     = errors.New("file size exceeds limit of 10MB")
	ErrFileType     = errors.New("invalid file type. Allowed types: JPG, PNG, WEBP")
	ErrFileRequired = errors.New("no file provided")
)

const MaxImageSize = 10 * 1024 * 1024 // 10MB

var AllowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Passport scans additionally accept PDF.
var AllowedPassportTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

func ValidateImage(file *multipart.FileHeader) error {
	return validate(file, AllowedImageTypes)
}

func ValidatePassport(file *multipart.FileHeader) error {
	return validate(file, AllowedPassportTypes)
}

func validate(file *multipart.FileHeader, allowed map[string]bool) error {
	if file == nil {
		return ErrFileRequired
	}

	if file.Size > MaxImageSize {
		return ErrFileSize
	}

	ext := filepath.Ext(strings.ToLower(file.Filename))
	if !allowed[ext] {
		return ErrFileType
	}

	return nil
}
