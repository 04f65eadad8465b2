package auth

import "github.com/haguru/jiraiya/internal/apperrors"

// AuthorizeMutation allows an update or delete only when the authenticated
// subject is exactly the post's author.
func AuthorizeMutation(subject, author string) error {
	if subject == "" || subject != author {
		return apperrors.ErrForbidden
	}
	return nil
}
