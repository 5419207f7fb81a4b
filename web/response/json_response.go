package response

import (
	"bytes"
	"encoding/json"
)

// JsonResponse encodes Body when it is sent. An encoding failure panics and is
// handled by the kernel like any other failure.
type JsonResponse struct {
	basicResponse
	Body interface{}
}

func (r *JsonResponse) GetBodyBytes() *bytes.Buffer {
	resultBytes, err := json.Marshal(r.Body)
	if err != nil {
		panic(err)
	}

	return bytes.NewBuffer(resultBytes)
}

//--------------------

func NewJsonResponse(status int, body interface{}) *JsonResponse {
	r := &JsonResponse{
		basicResponse: newBasicResponse(status),
		Body:          body,
	}
	r.HeaderSet("Content-Type", "application/json")

	return r
}
