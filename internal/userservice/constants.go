package userservice

const (
	// Error messages for user service operations
	ErrFailedToHashPassword = "failed to hash password" // #nosec G101
	ErrFailedToRegisterUser = "failed to register user"
	ErrRetrievingUser       = "error retrieving user"
	ErrUserNotFound         = "user not found"
	ErrInvalidPassword      = "invalid password"
	ErrUsernameTaken        = "username already exists"

	// dummyPassword is hashed once so unknown usernames cost one bcrypt compare too.
	dummyPassword = "jiraiya-timing-equalizer" // #nosec G101
)
