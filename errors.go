package pubgen

import (
	"errors"

	"github.com/eringen/pubgen/views"
)

var (
	// ErrTemplateNotFound is returned by Build when a page template is missing.
	ErrTemplateNotFound = views.ErrTemplateNotFound
	// ErrPostExists is returned by NewPost when the target file already exists.
	ErrPostExists = errors.New("post already exists")
	// ErrEmptySlug is returned by NewPost when the title has no slug characters.
	ErrEmptySlug = errors.New("title produces an empty slug")
)
