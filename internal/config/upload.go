package config

import (
	"os"
	"strconv"
)

// Upload backend selection.  The choice is made exactly once at startup and
// expressed as a tagged variant so the upload store never inspects the
// process environment itself.
const (
	// UploadBackendLocal stores poster files on the local filesystem.
	UploadBackendLocal = "local"
	// UploadBackendS3 stores poster files in an S3 bucket.
	UploadBackendS3 = "s3"
)

// LocalBackend holds settings for filesystem storage.  Dir is created on
// first use if it does not exist.
type LocalBackend struct {
	Dir       string // directory poster files are written to
	PublicURL string // URL prefix the files are served back under
}

// S3Backend holds the credentials and bucket for object storage.
type S3Backend struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// UploadConfig selects and parameterizes the poster storage backend.
type UploadConfig struct {
	Backend  string       // UploadBackendLocal or UploadBackendS3
	Local    LocalBackend // populated for the local backend
	S3       S3Backend    // populated for the s3 backend
	MaxBytes int64        // size ceiling for uploaded files
}

// LoadUploadConfig resolves the upload backend from the environment.  S3 is
// used only when running in production AND the full credential set (access
// key, secret key, bucket) is present; anything less falls back to local
// disk.  Supported variables: AWS_ACCESS_KEY, AWS_SECRET_KEY,
// AWS_S3_BUCKET_NAME, AWS_REGION, UPLOAD_DIR, UPLOAD_MAX_BYTES.
func LoadUploadConfig(production bool) UploadConfig {
	cfg := UploadConfig{
		Backend: UploadBackendLocal,
		Local: LocalBackend{
			Dir:       envStr("UPLOAD_DIR", "uploads/posters"),
			PublicURL: "/uploads/posters",
		},
		MaxBytes: envInt64("UPLOAD_MAX_BYTES", 5*1024*1024),
	}
	accessKey := os.Getenv("AWS_ACCESS_KEY")
	secretKey := os.Getenv("AWS_SECRET_KEY")
	bucket := os.Getenv("AWS_S3_BUCKET_NAME")
	if production && accessKey != "" && secretKey != "" && bucket != "" {
		cfg.Backend = UploadBackendS3
		cfg.S3 = S3Backend{
			Bucket:    bucket,
			Region:    envStr("AWS_REGION", "us-east-1"),
			AccessKey: accessKey,
			SecretKey: secretKey,
		}
	}
	return cfg
}

func envInt64(k string, d int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
		return n
	}
	return d
}
