package domain

// Identity — подтверждённая личность автора запроса.
type Identity struct {
	UserID string
	Email  string
}
