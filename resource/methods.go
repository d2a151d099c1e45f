package resource

import (
	"net/http"
	"sort"
)

var canonicalOrder = []string{
	http.MethodOptions,
	http.MethodHead,
	http.MethodGet,
	http.MethodPut,
	http.MethodDelete,
}

// ImplementedMethods returns the methods r can currently handle.
//
// OPTIONS is always implemented. GET and HEAD need a current representation
// and a way to produce it, and DELETE needs a current representation and a
// Destroyable resource. PUT only needs a Writable resource, so an empty
// resource can be created. Methods in Handlers are always included.
func ImplementedMethods(r Resource) []string {
	set := map[string]bool{http.MethodOptions: true}
	if r.Exists() {
		_, readable := r.(Readable)
		_, representable := r.(Representable)
		if readable || representable {
			set[http.MethodGet] = true
			set[http.MethodHead] = true
		}
		if _, ok := r.(Destroyable); ok {
			set[http.MethodDelete] = true
		}
	}
	if _, ok := r.(Writable); ok {
		set[http.MethodPut] = true
	}
	if mh, ok := r.(MethodHandlers); ok {
		for method := range mh.Handlers() {
			set[method] = true
		}
	}

	methods := make([]string, 0, len(set))
	for _, m := range canonicalOrder {
		if set[m] {
			methods = append(methods, m)
			delete(set, m)
		}
	}
	rest := make([]string, 0, len(set))
	for m := range set {
		rest = append(rest, m)
	}
	sort.Strings(rest)
	return append(methods, rest...)
}

// Handler returns the generic handler r registered for method, if any.
func Handler(r Resource, method string) (HandlerFunc, bool) {
	mh, ok := r.(MethodHandlers)
	if !ok {
		return nil, false
	}
	h, ok := mh.Handlers()[method]
	return h, ok && h != nil
}
