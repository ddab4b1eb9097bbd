package htmx

import "net/http"

// Redirect navigates the browser to target.
//
// Regular requests get a 3xx with the given status. htmx requests get a
// 200 with HX-Redirect, because the XHR would otherwise follow the
// redirect and swap the next page into the current fragment.
func Redirect(w http.ResponseWriter, r *http.Request, target string, status int) {
	if IsHTMX(r) {
		w.Header().Set(HeaderRedirect, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, status)
}
