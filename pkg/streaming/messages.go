package streaming

import (
	"encoding/json"
)

// MethodCreate opens the connection's view with creation params. It is
// only valid as the first request of a connection.
const MethodCreate = "map#create"

// Command method names accepted from the client.
const (
	MethodWaitForMap          = "map#waitForMap"
	MethodMapUpdate           = "map#update"
	MethodGetVisibleRegion    = "map#getVisibleRegion"
	MethodGetScreenCoordinate = "map#getScreenCoordinate"
	MethodGetLatLng           = "map#getLatLng"
	MethodTakeSnapshot        = "map#takeSnapshot"
	MethodGetZoomLevel        = "map#getZoomLevel"
	MethodGetMinMaxZoomLevels = "map#getMinMaxZoomLevels"
	MethodSetStyle            = "map#setStyle"

	MethodIsCompassEnabled          = "map#isCompassEnabled"
	MethodIsMapToolbarEnabled       = "map#isMapToolbarEnabled"
	MethodIsZoomGesturesEnabled     = "map#isZoomGesturesEnabled"
	MethodIsLiteModeEnabled         = "map#isLiteModeEnabled"
	MethodIsZoomControlsEnabled     = "map#isZoomControlsEnabled"
	MethodIsScrollGesturesEnabled   = "map#isScrollGesturesEnabled"
	MethodIsTiltGesturesEnabled     = "map#isTiltGesturesEnabled"
	MethodIsRotateGesturesEnabled   = "map#isRotateGesturesEnabled"
	MethodIsMyLocationButtonEnabled = "map#isMyLocationButtonEnabled"
	MethodIsTrafficEnabled          = "map#isTrafficEnabled"
	MethodIsBuildingsEnabled        = "map#isBuildingsEnabled"

	MethodCameraMove    = "camera#move"
	MethodCameraAnimate = "camera#animate"

	MethodMarkersUpdate            = "markers#update"
	MethodMarkersShowInfoWindow    = "markers#showInfoWindow"
	MethodMarkersHideInfoWindow    = "markers#hideInfoWindow"
	MethodMarkersIsInfoWindowShown = "markers#isInfoWindowShown"
	MethodPolygonsUpdate           = "polygons#update"
	MethodPolylinesUpdate          = "polylines#update"
	MethodCirclesUpdate            = "circles#update"
	MethodTileOverlaysUpdate       = "tileOverlays#update"
	MethodTileOverlaysClearCache   = "tileOverlays#clearTileCache"
	MethodGetTileOverlayInfo       = "map#getTileOverlayInfo"
)

// Event method names sent to the client.
const (
	EventMapTap            = "map#onTap"
	EventMapLongPress      = "map#onLongPress"
	EventCameraMoveStarted = "camera#onMoveStarted"
	EventCameraMove        = "camera#onMove"
	EventCameraIdle        = "camera#onIdle"
	EventMarkerTap         = "marker#onTap"
	EventMarkerDragEnd     = "marker#onDragEnd"
	EventInfoWindowTap     = "infoWindow#onTap"
	EventPolygonTap        = "polygon#onTap"
	EventPolylineTap       = "polyline#onTap"
	EventCircleTap         = "circle#onTap"
)

// Simulation frame types understood by the headless surface.
const (
	SimulateTap           = "tap"
	SimulateLongPress     = "longPress"
	SimulateDrag          = "drag"
	SimulateCameraMove    = "cameraMove"
	SimulateInfoWindowTap = "infoWindowTap"
	SimulateClick         = "click"
	SimulateMapReady      = "mapReady"
)

// Request is a client command frame.
type Request struct {
	ID        uint64          `json:"id"`
	Method    string          `json:"method"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Response answers exactly one Request. Either Result or Error is set.
type Response struct {
	ID     uint64      `json:"id"`
	Result any         `json:"result"`
	Error  *ErrorFrame `json:"error,omitempty"`
}

// ErrorFrame is the wire form of a failed command.
type ErrorFrame struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EventFrame is a server-initiated notification. It carries no ID.
type EventFrame struct {
	Method    string `json:"method"`
	Arguments any    `json:"arguments"`
}

// SimulateFrame drives the headless surface for tests and demos.
type SimulateFrame struct {
	Simulate string          `json:"simulate"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// SimulateAck follows every simulation frame, after any events it caused.
type SimulateAck struct {
	Simulate string      `json:"simulate"`
	Error    *ErrorFrame `json:"error,omitempty"`
}

// NewSimulateAck builds the ack for a simulation, carrying err if it failed.
func NewSimulateAck(simulate string, err error) SimulateAck {
	ack := SimulateAck{Simulate: simulate}
	if err != nil {
		ack.Error = &ErrorFrame{Code: Code(err), Message: err.Error()}
	}
	return ack
}

// Frame is the union used to sniff an incoming message before decoding.
type Frame struct {
	ID       *uint64 `json:"id"`
	Method   string  `json:"method"`
	Simulate string  `json:"simulate"`
}

// NewErrorResponse builds a Response carrying err mapped to its wire code.
func NewErrorResponse(id uint64, err error) Response {
	return Response{ID: id, Error: &ErrorFrame{Code: Code(err), Message: err.Error()}}
}
