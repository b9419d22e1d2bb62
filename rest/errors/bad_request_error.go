package errors

// BadRequestError signals a request the caller must correct before retrying.
type BadRequestError struct {
	msg string
}

func (e *BadRequestError) Error() string {
	return e.msg
}

func NewBadRequestError(text string) error {
	return &BadRequestError{text}
}
