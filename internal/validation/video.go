package validation

import (
	"strings"

	"github.com/iudanet/havelockadmin/pkg/api"
)

// ValidateVideo - схема формы добавления видео
func ValidateVideo(in api.VideoInput) error {
	var c collector
	c.check(len(strings.TrimSpace(in.Title)) >= 2, "title", "Add Title must be at least 2 characters.")
	c.check(in.File.Content != nil, "video", "Video file is required")
	return c.err()
}
