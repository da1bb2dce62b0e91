package attachment

import (
	"context"
	"fmt"
	"guestroom/infras/s3"
	"guestroom/shared/base64"
	"guestroom/shared/failure"
	"guestroom/shared/validator"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const AllowedTypes = "application/pdf image/png image/jpeg"

func isURL(file string) bool {
	return strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://")
}

// Store uploads every base64 data URL in files under directory and returns the stored URLs
// in input order. Entries that already are http(s) URLs are kept as they are. When one upload
// fails, the objects stored so far are removed again.
func Store(ctx context.Context, store s3.S3, directory string, files []string, maxSizeMB float64) ([]string, error) {
	urls := make([]string, 0, len(files))
	keys := []string{}
	rule := fmt.Sprintf("mimetypes=%s,maxfilesize=%g", AllowedTypes, maxSizeMB)

	for idx, file := range files {
		if isURL(file) {
			urls = append(urls, file)

			continue
		}

		if err := validator.ValidateVar(file, rule); err != nil {
			Remove(ctx, store, keys)

			return nil, failure.BadRequestFromString(fmt.Sprintf("file %d: must be a pdf, png or jpeg of at most %gMB", idx+1, maxSizeMB)) // nolint:wrapcheck
		}

		contentType, data, err := base64.Decode(file)
		if err != nil {
			Remove(ctx, store, keys)

			return nil, failure.BadRequest(fmt.Errorf("file %d: %w", idx+1, err)) // nolint:wrapcheck
		}

		key := path.Join(directory, uuid.NewString()+"."+base64.Extension(contentType))

		url, err := store.Upload(ctx, key, contentType, data)
		if err != nil {
			log.Error().Err(err).Str("directory", directory).Msg("failed to upload attachment")
			Remove(ctx, store, keys)

			return nil, fmt.Errorf("failed to upload attachment: %w", err)
		}

		keys = append(keys, key)
		urls = append(urls, url)
	}

	return urls, nil
}

// Remove deletes stored objects. Errors are logged only.
func Remove(ctx context.Context, store s3.S3, keys []string) {
	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to remove attachment")
		}
	}
}

// RemoveURLs deletes the objects behind previously stored URLs. Foreign URLs are skipped.
func RemoveURLs(ctx context.Context, store s3.S3, urls []string) {
	keys := make([]string, 0, len(urls))

	for _, url := range urls {
		if key := store.KeyFromURL(url); key != "" {
			keys = append(keys, key)
		}
	}

	Remove(ctx, store, keys)
}

// Uploaded returns the URLs in stored that Store created itself, as opposed to URLs that
// were passed through from the input.
func Uploaded(input, stored []string) []string {
	created := []string{}

	for i, url := range stored {
		if i < len(input) && input[i] == url {
			continue
		}

		created = append(created, url)
	}

	return created
}
