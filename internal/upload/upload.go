// Package upload validates and stores poster images.  Two backends exist:
// local disk for development and S3 for production, chosen once at startup
// through config.UploadConfig.  Validation rejects bad MIME types, oversized
// payloads, disallowed extensions and payloads whose leading bytes do not
// match the magic-number signature of the claimed type — all before anything
// touches storage.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-catalog/internal/apperror"
	"github.com/iliyamo/movie-catalog/internal/config"
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Magic-number signatures checked against the leading payload bytes.
var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
)

// mimeSignatures maps each accepted MIME type to the signature its payload
// must carry; a JPEG body claimed as image/png is rejected.
var mimeSignatures = map[string][]byte{
	"image/jpeg": jpegMagic,
	"image/jpg":  jpegMagic,
	"image/png":  pngMagic,
}

// Store persists poster files to the configured backend.
type Store struct {
	cfg    config.UploadConfig
	s3     *s3.Client // nil for the local backend
	logger *zap.Logger
}

// NewStore builds a Store for the configured backend.  For the local backend
// the upload directory is created if absent; for S3 a client is constructed
// from the static credentials resolved at startup.
func NewStore(ctx context.Context, cfg config.UploadConfig, logger *zap.Logger) (*Store, error) {
	st := &Store{cfg: cfg, logger: logger}
	switch cfg.Backend {
	case config.UploadBackendS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.S3.Region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, "")),
		)
		if err != nil {
			return nil, fmt.Errorf("upload: loading aws config: %w", err)
		}
		st.s3 = s3.NewFromConfig(awsCfg)
		logger.Info("poster uploads use S3", zap.String("bucket", cfg.S3.Bucket))
	default:
		if err := os.MkdirAll(cfg.Local.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("upload: creating upload dir: %w", err)
		}
		logger.Info("poster uploads use local storage", zap.String("dir", cfg.Local.Dir))
	}
	return st, nil
}

// Validate checks the payload against every constraint and returns a
// validation error naming the first violated one.  It never touches storage.
func (s *Store) Validate(data []byte, mimeType, originalName string) error {
	if len(data) == 0 {
		return apperror.Validation("no file provided")
	}
	if !allowedMimeTypes[strings.ToLower(mimeType)] {
		return apperror.Validationf(
			"invalid file type, only JPEG, JPG and PNG are allowed, received: %s", mimeType)
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return apperror.Validationf(
			"file size too large, maximum allowed size is %dMB", s.cfg.MaxBytes/(1024*1024))
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return apperror.Validationf(
			"invalid file extension, only .jpg, .jpeg and .png are allowed, received: %s", ext)
	}
	if !bytes.HasPrefix(data, mimeSignatures[strings.ToLower(mimeType)]) {
		return apperror.Validation("invalid file: payload does not match the claimed image type")
	}
	return nil
}

// StorePoster validates the payload and writes it under a generated
// collision-resistant name, returning the public URL.  User-supplied names
// never reach the filesystem or bucket key.
func (s *Store) StorePoster(ctx context.Context, data []byte, mimeType, originalName string) (string, error) {
	if err := s.Validate(data, mimeType, originalName); err != nil {
		return "", err
	}
	name := fmt.Sprintf("poster-%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(originalName)))

	if s.s3 != nil {
		key := "posters/" + name
		_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:             aws.String(s.cfg.S3.Bucket),
			Key:                aws.String(key),
			Body:               bytes.NewReader(data),
			ContentType:        aws.String(mimeType),
			ContentDisposition: aws.String("inline"),
			CacheControl:       aws.String("max-age=31536000"),
		})
		if err != nil {
			return "", fmt.Errorf("upload: s3 put: %w", err)
		}
		url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.S3.Bucket, key)
		s.logger.Info("stored poster", zap.String("url", url))
		return url, nil
	}

	dst := filepath.Join(s.cfg.Local.Dir, name)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("upload: writing file: %w", err)
	}
	url := s.cfg.Local.PublicURL + "/" + name
	s.logger.Info("stored poster", zap.String("url", url))
	return url, nil
}

// DeletePoster removes a previously stored poster.  It is best-effort by
// contract: failures are logged and swallowed so a missing or locked file
// can never fail the caller's primary operation.
func (s *Store) DeletePoster(ctx context.Context, posterURL string) {
	if posterURL == "" {
		return
	}
	if s.s3 != nil {
		_, key, found := strings.Cut(posterURL, ".amazonaws.com/")
		if !found || key == "" {
			s.logger.Warn("cannot extract key from poster url", zap.String("url", posterURL))
			return
		}
		if _, err := s.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.cfg.S3.Bucket),
			Key:    aws.String(key),
		}); err != nil {
			s.logger.Warn("failed to delete poster from s3",
				zap.String("url", posterURL), zap.Error(err))
			return
		}
		s.logger.Info("deleted poster", zap.String("url", posterURL))
		return
	}

	name := path.Base(posterURL)
	if name == "." || name == "/" {
		return
	}
	if err := os.Remove(filepath.Join(s.cfg.Local.Dir, name)); err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to delete poster file",
				zap.String("url", posterURL), zap.Error(err))
		}
		return
	}
	s.logger.Info("deleted poster", zap.String("url", posterURL))
}
