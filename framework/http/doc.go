// Package http holds small request and response helpers for JSON handlers.
//
//	func show(w http.ResponseWriter, r *http.Request) {
//	    req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
//	    res.Success(map[string]any{"key": req.RouteParam("key")})
//	}
//
// Responses use a {"data": …} envelope on success and {"message": …} on
// error. Validation failures are rendered as {"errors": {"field": [...]}}.
package http
