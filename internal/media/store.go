package media

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/postline/postline/pkg/config"
)

// postsPrefix is where post images live under the media root; stored
// references look like "posts/<name>".
const postsPrefix = "posts"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store saves uploaded files under a configured media root and hands
// back the relative reference persisted on the entity.
type Store struct {
	root string
}

// NewStore creates a media store rooted at cfg.Root
func NewStore(cfg *config.MediaConfig) *Store {
	return &Store{root: cfg.Root}
}

// SavePostImage stores an uploaded post image and returns its reference
// ("posts/<uuid>.<ext>"). The original filename only contributes the
// extension.
func (s *Store) SavePostImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type: %q", ext)
	}

	ref := postsPrefix + "/" + uuid.NewString() + ext
	dst := s.Resolve(ref)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return ref, nil
}

// Resolve maps a stored reference to a filesystem path under the root
func (s *Store) Resolve(ref string) string {
	return filepath.Join(s.root, filepath.FromSlash(ref))
}
