// Package httpshape documents the bridge's HTTP surface as a Go
// interface the (out-of-scope, externally owned) HTTP server
// implements against. It defines only route names and handler
// signatures — never a net/http.Server, since the HTTP transport
// itself is an explicit external collaborator.
package httpshape

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Route names for the four endpoints the bridge exposes.
const (
	RouteRequestData       = "requestData"
	RouteMinimapSnapshot   = "minimapSnapshot"
	RouteSendCommands      = "sendCommands"
	RouteRestartConsole    = "restartConsole"
)

// Handlers is the contract the excluded HTTP layer must satisfy. Each
// method corresponds 1:1 to one endpoint; this package never
// implements them, only names the shape.
type Handlers interface {
	// RequestData serves GET /requestData: full state + screenshot
	// side-effect + rate-limited savestate backup.
	RequestData(w http.ResponseWriter, r *http.Request)

	// MinimapSnapshot serves GET /minimapSnapshot from the cached
	// snapshot only — it must never touch the emulator channel.
	MinimapSnapshot(w http.ResponseWriter, r *http.Request)

	// SendCommands serves POST /sendCommands; always returns HTTP 200
	// with per-step outcomes.
	SendCommands(w http.ResponseWriter, r *http.Request)

	// RestartConsole serves POST /restartConsole.
	RestartConsole(w http.ResponseWriter, r *http.Request)
}

// RegisterRoutes wires h's four handlers onto r under their canonical
// paths. The HTTP server binary (out of scope here) calls this
// instead of hand-wiring mux routes itself, so adding a fifth core
// endpoint later only means extending Handlers and this function.
func RegisterRoutes(r *mux.Router, h Handlers) {
	r.HandleFunc("/requestData", h.RequestData).Methods(http.MethodGet).Name(RouteRequestData)
	r.HandleFunc("/minimapSnapshot", h.MinimapSnapshot).Methods(http.MethodGet).Name(RouteMinimapSnapshot)
	r.HandleFunc("/sendCommands", h.SendCommands).Methods(http.MethodPost).Name(RouteSendCommands)
	r.HandleFunc("/restartConsole", h.RestartConsole).Methods(http.MethodPost).Name(RouteRestartConsole)
}

// RequestDataResponse is the `GET /requestData` response envelope.
// The actual Snapshot payload type lives in statebuilder; this package
// only shapes the envelope so it doesn't need to import statebuilder
// and create a dependency cycle risk with a future HTTP package.
type RequestDataResponse struct {
	OK    bool `json:"ok"`
	Data  any  `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Trace string `json:"trace,omitempty"`
}

// SendCommandsRequest is the `POST /sendCommands` request body.
// Entries are left as json.RawMessage-compatible `any` here (decoded
// via input.ParseCommands) since a command entry may be a bare string
// or an object.
type SendCommandsRequest struct {
	Commands []any `json:"commands"`
}

// RestartConsoleResponse is the `POST /restartConsole` response.
type RestartConsoleResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
