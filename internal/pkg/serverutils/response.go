package serverutils

// Response is the success envelope for non-search endpoints.
type Response[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Message: message,
		Data:    data,
	}
}
