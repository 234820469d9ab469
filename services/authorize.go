package services

import "fmt"

// Owned is anything with an author that only that author may change.
type Owned interface {
	OwnerID() uint
	// DetailPostID is the post page a denied viewer is sent back to.
	DetailPostID() uint
}

func Authorize(resource Owned, viewerID uint) error {
	if viewerID == 0 || resource.OwnerID() != viewerID {
		return fmt.Errorf("viewer %d: %w", viewerID, ErrNotAuthor)
	}
	return nil
}
