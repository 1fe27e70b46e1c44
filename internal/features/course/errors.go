package course

import "errors"

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrVideoNotFound   = errors.New("video not found")
	ErrNotCourseOwner  = errors.New("course belongs to another user")
	ErrDuplicateCourse = errors.New("course already exists for this playlist or video")
)
