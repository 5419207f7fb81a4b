package response

import (
	"bytes"
	"net/http"
)

type BytesResponse struct {
	basicResponse
	Body *bytes.Buffer
}

func (r *BytesResponse) ClearBody() {
	r.Body = new(bytes.Buffer)
}

func (r *BytesResponse) GetBodyBytes() *bytes.Buffer {
	return bytes.NewBuffer(append([]byte(nil), r.Body.Bytes()...))
}

//--------------------

func NewBytesResponse() *BytesResponse {
	return &BytesResponse{
		basicResponse: newBasicResponse(http.StatusOK),
		Body:          new(bytes.Buffer),
	}
}

func NewTextResponse(status int, text string) *BytesResponse {
	r := NewBytesResponse()
	r.SetHttpStatus(status)
	r.HeaderSet("Content-Type", "text/plain; charset=utf-8")
	r.Body.WriteString(text)

	return r
}

//--------------------

// BytesResponseWriter lets http.Handler style code fill a BytesResponse.
type BytesResponseWriter struct {
	*BytesResponse
}

func (r *BytesResponseWriter) Header() http.Header {
	return r.GetHeaders()
}

func (r *BytesResponseWriter) Write(content []byte) (int, error) {
	return r.Body.Write(content)
}

func (r *BytesResponseWriter) WriteHeader(statusCode int) {
	r.SetHttpStatus(statusCode)
}

//--------------------

func NewBytesResponseWriter() *BytesResponseWriter {
	return &BytesResponseWriter{
		BytesResponse: NewBytesResponse(),
	}
}
