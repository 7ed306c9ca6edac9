// Package media stores uploaded profile pictures and reports the URL they
// are served from.
package media

import (
	"fmt"
	"path"
	"strings"
)

// PublicPrefix is where the API serves locally stored files.
const PublicPrefix = "/media"

func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != key || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("media: invalid key %q", key)
	}
	return cleaned, nil
}
