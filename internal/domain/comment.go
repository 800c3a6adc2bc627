package domain

import (
	"fmt"
	"strings"
	"time"
)

const MaxCommentLength = 500

// Comment is a comment on a gather article. ParentID is set for replies and
// nil for top-level comments; replies nest one level only.
type Comment struct {
	ID        string
	ArticleID string
	AuthorID  string
	ParentID  *string
	Content   string
	CreatedAt time.Time
}

func (c *Comment) Validate() error {
	if strings.TrimSpace(c.ArticleID) == "" {
		return fmt.Errorf("%w: article id is required", ErrValidation)
	}
	if strings.TrimSpace(c.AuthorID) == "" {
		return fmt.Errorf("%w: author id is required", ErrValidation)
	}
	content := strings.TrimSpace(c.Content)
	if content == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if len([]rune(content)) > MaxCommentLength {
		return fmt.Errorf("%w: content exceeds %d characters", ErrValidation, MaxCommentLength)
	}
	if c.ParentID != nil && strings.TrimSpace(*c.ParentID) == "" {
		return fmt.Errorf("%w: parent id must not be blank", ErrValidation)
	}
	return nil
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
