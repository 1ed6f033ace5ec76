package identity

import (
	"path"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// DocumentUUID identifies a content document by its cleaned relative path,
// so rebuilds of the same tree log the same id.
func DocumentUUID(relPath string) uuid.UUID {
	cleaned := path.Clean("/" + strings.TrimSpace(relPath))
	if cleaned == "/" {
		return uuid.Nil
	}
	return UUID("tweetembed:document:" + strings.TrimPrefix(cleaned, "/"))
}
