package common

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

func NewHttpResponse[T any](result T) HttpResponse[T] {
	return HttpResponse[T]{Result: &result}
}
