package bot

import (
	"fmt"
	"strings"
)

// Labels the admin uses in upload captions and delete messages.
const (
	scholarLabel = "الشيخ:"
	titleLabel   = "العنوان:"
)

// parseCaption extracts the scholar and title from a labeled message:
//
//	الشيخ: ابن تيمية
//	العنوان: مجموع الفتاوى
//
// Lines may appear in either order; both must be present and non-empty.
func parseCaption(s string) (scholar, title string, err error) {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, scholarLabel):
			scholar = strings.TrimSpace(strings.TrimPrefix(line, scholarLabel))
		case strings.HasPrefix(line, titleLabel):
			title = strings.TrimSpace(strings.TrimPrefix(line, titleLabel))
		}
	}
	if scholar == "" || title == "" {
		return "", "", fmt.Errorf("caption missing %s or %s line", scholarLabel, titleLabel)
	}
	return scholar, title, nil
}

// hasLabels reports whether a free-text message looks like a labeled
// scholar/title form rather than a search query.
func hasLabels(s string) bool {
	return strings.Contains(s, scholarLabel) && strings.Contains(s, titleLabel)
}
