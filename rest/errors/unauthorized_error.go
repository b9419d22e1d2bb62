package errors

type UnauthorizedError struct {
	msg string
}

func (e *UnauthorizedError) Error() string {
	return e.msg
}

func NewUnauthorizedError(text string) error {
	return &UnauthorizedError{text}
}
