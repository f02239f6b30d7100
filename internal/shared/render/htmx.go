package render

import (
	"encoding/json"
	"net/http"
)

const (
	ToastSuccess = "success"
	ToastWarning = "warning"
	ToastError   = "error"

	// EventRefreshTable makes the product table container GET itself again.
	EventRefreshTable = "refreshTable"
	// EventShowToast is handled by the toast host in the layout.
	EventShowToast = "showToast"
)

// Toast is the detail of a showToast event.
type Toast struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Events is the HX-Trigger payload, event name to detail.
type Events map[string]any

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Redirect navigates the browser to target: HX-Redirect for htmx requests, 303 otherwise.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Trigger sets HX-Trigger so htmx dispatches the events once the response is processed.
func Trigger(w http.ResponseWriter, events Events) {
	if len(events) == 0 {
		return
	}
	b, err := json.Marshal(events)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(b))
}

// ShowToast triggers a toast and tells htmx to leave the page untouched.
func ShowToast(w http.ResponseWriter, level, message string) {
	Trigger(w, Events{EventShowToast: Toast{Level: level, Message: message}})
	NoSwap(w)
}

// NoSwap keeps whatever the target currently shows.
func NoSwap(w http.ResponseWriter) {
	w.Header().Set("HX-Reswap", "none")
}
