package response

import "net/http"

type RedirectResponse struct {
	*BytesResponseWriter
}

func (r *RedirectResponse) Location() string {
	return r.GetHeaders().Get("Location")
}

//--------------------

// NewRedirectResponse redirects to url, which may be relative to the request path.
func NewRedirectResponse(request *http.Request, url string, httpStatus int) *RedirectResponse {
	result := &RedirectResponse{
		BytesResponseWriter: NewBytesResponseWriter(),
	}

	http.Redirect(result, request, url, httpStatus)

	return result
}
