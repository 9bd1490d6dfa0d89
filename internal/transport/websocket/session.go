package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mapbridge/mapbridge/internal/convert"
	"github.com/mapbridge/mapbridge/internal/loop"
	"github.com/mapbridge/mapbridge/internal/mapview"
	"github.com/mapbridge/mapbridge/internal/overlay"
	"github.com/mapbridge/mapbridge/internal/surface/memory"
	"github.com/mapbridge/mapbridge/pkg/core"
	"github.com/mapbridge/mapbridge/pkg/streaming"

	ws "github.com/gorilla/websocket"
)

// session is one connection and the view it drives. Everything touching
// view or engine runs on the session's loop.
type session struct {
	id     string
	remote string
	conn   *ws.Conn
	deps   Dependencies
	log    *slog.Logger

	loop   *loop.Loop
	sendCh chan []byte
	done   chan struct{}

	closeOnce sync.Once
	journal   core.Session

	view   *mapview.View
	engine *memory.Engine
	timer  *time.Timer
}

func newSession(id string, conn *ws.Conn, deps Dependencies) *session {
	remote := conn.RemoteAddr().String()
	return &session{
		id:     id,
		remote: remote,
		conn:   conn,
		deps:   deps,
		log:    deps.Logger.With("session", id, "remote", remote),
		loop:   loop.New(deps.QueueSize),
		sendCh: make(chan []byte, sendChSize),
		done:   make(chan struct{}),
	}
}

// serve runs the session until the peer goes away or ctx is cancelled.
func (s *session) serve(ctx context.Context) {
	s.journal = core.Session{ViewID: s.id, Remote: s.remote, StartedAt: time.Now()}
	if err := s.deps.Journal.StartSession(&s.journal); err != nil {
		s.log.Error("Failed to start journal session", "error", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := s.loop.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Error("Loop exited", "error", err)
		}
	}()
	go s.writeLoop()

	s.log.Info("Session opened")
	s.readLoop()
	s.close()
}

// readLoop decodes frames and posts them onto the loop.
func (s *session) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) {
				s.log.Warn("WebSocket read error", "error", err)
			}
			return
		}
		if err := s.handleFrame(message); err != nil {
			if errors.Is(err, loop.ErrStopped) {
				return
			}
			s.log.Warn("Dropping frame", "error", err)
		}
	}
}

func (s *session) handleFrame(message []byte) error {
	var frame streaming.Frame
	if err := json.Unmarshal(message, &frame); err != nil {
		s.send(streaming.NewErrorResponse(0, fmt.Errorf("malformed frame: %v: %w", err, streaming.ErrInvalidArgument)))
		return nil
	}

	if frame.Simulate != "" {
		var sim streaming.SimulateFrame
		if err := json.Unmarshal(message, &sim); err != nil {
			s.send(streaming.NewSimulateAck(frame.Simulate, fmt.Errorf("%v: %w", err, streaming.ErrInvalidArgument)))
			return nil
		}
		return s.loop.Post(func() {
			s.send(streaming.NewSimulateAck(sim.Simulate, s.simulate(sim)))
		})
	}

	var req streaming.Request
	if err := json.Unmarshal(message, &req); err != nil || frame.ID == nil || req.Method == "" {
		id := uint64(0)
		if frame.ID != nil {
			id = *frame.ID
		}
		s.send(streaming.NewErrorResponse(id, fmt.Errorf("request needs an id and a method: %w", streaming.ErrInvalidArgument)))
		return nil
	}

	var args any
	if len(req.Arguments) > 0 {
		if err := json.Unmarshal(req.Arguments, &args); err != nil {
			s.send(streaming.NewErrorResponse(req.ID, fmt.Errorf("arguments: %v: %w", err, streaming.ErrInvalidArgument)))
			return nil
		}
	}
	return s.loop.Post(func() { s.request(req.ID, req.Method, args) })
}

// request runs on the loop.
func (s *session) request(id uint64, method string, args any) {
	if method == streaming.MethodCreate {
		if s.view != nil {
			s.send(streaming.NewErrorResponse(id, fmt.Errorf("%s: view already created: %w", method, streaming.ErrInvalidArgument)))
			return
		}
		if err := s.createView(args); err != nil {
			s.send(streaming.NewErrorResponse(id, err))
			return
		}
		s.send(streaming.Response{ID: id, Result: map[string]any{"viewId": s.id}})
		return
	}

	if err := s.ensureView(); err != nil {
		s.send(streaming.NewErrorResponse(id, err))
		return
	}
	s.view.Dispatch(method, args, func(result any, err error) {
		if err != nil {
			s.send(streaming.NewErrorResponse(id, err))
			return
		}
		s.send(streaming.Response{ID: id, Result: result})
	})
}

func (s *session) ensureView() error {
	if s.view != nil {
		return nil
	}
	return s.createView(nil)
}

// createView runs on the loop.
func (s *session) createView(args any) error {
	p, err := mapview.ParseCreationParams(args)
	if err != nil {
		return fmt.Errorf("%s: %w", streaming.MethodCreate, err)
	}
	p.ID = s.id
	if p.Density <= 0 {
		p.Density = s.deps.Map.Density
	}
	if p.DuplicatePolicy == "" {
		p.DuplicatePolicy = overlay.ParseDuplicatePolicy(s.deps.Map.DuplicatePolicy)
	}
	if s.deps.Map.TrackCameraPosition {
		if p.Options == nil {
			p.Options = map[string]any{}
		}
		if _, ok := p.Options["trackCameraPosition"]; !ok {
			p.Options["trackCameraPosition"] = true
		}
	}

	cfg := memory.Config{Viewport: s.deps.Viewport}
	if p.InitialCamera != nil {
		cfg.Camera = *p.InitialCamera
	}
	engine := memory.NewEngine(cfg)

	opts := []mapview.Option{mapview.WithJournal(s.deps.Journal)}
	if s.deps.DispatcherLogger != nil {
		opts = append(opts, mapview.WithLogger(s.deps.DispatcherLogger))
	}
	view, err := mapview.New(engine, s, p, opts...)
	if err != nil {
		return err
	}
	s.view = view
	s.engine = engine

	switch delay := s.deps.Map.ReadyDelay; {
	case delay == 0:
		engine.Ready()
	case delay > 0:
		s.timer = time.AfterFunc(delay, func() {
			_ = s.loop.Post(engine.Ready)
		})
	}
	return nil
}

// Emit sends a view event to the client. It runs on the loop.
func (s *session) Emit(method string, args map[string]any) {
	s.send(streaming.EventFrame{Method: method, Arguments: args})
}

type simulatePayload struct {
	Position     any    `json:"position"`
	MarkerID     string `json:"markerId"`
	CameraUpdate any    `json:"cameraUpdate"`
	Kind         string `json:"kind"`
	ID           string `json:"id"`
}

// simulate injects a native interaction. It runs on the loop.
func (s *session) simulate(f streaming.SimulateFrame) error {
	if err := s.ensureView(); err != nil {
		return err
	}
	if f.Simulate == streaming.SimulateMapReady {
		s.engine.Ready()
		return nil
	}
	m := s.engine.Map()
	if m == nil {
		return fmt.Errorf("%s: %w", f.Simulate, streaming.ErrMapUninitialized)
	}

	var p simulatePayload
	if len(f.Payload) > 0 {
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			return fmt.Errorf("%s payload: %v: %w", f.Simulate, err, streaming.ErrInvalidArgument)
		}
	}

	switch f.Simulate {
	case streaming.SimulateTap, streaming.SimulateLongPress:
		pos, err := convert.ToLatLng(p.Position)
		if err != nil {
			return fmt.Errorf("%s position: %w", f.Simulate, err)
		}
		if f.Simulate == streaming.SimulateTap {
			m.Tap(pos)
		} else {
			m.LongPress(pos)
		}
	case streaming.SimulateDrag:
		pos, err := convert.ToLatLng(p.Position)
		if err != nil {
			return fmt.Errorf("drag position: %w", err)
		}
		nativeID, err := s.view.NativeID("marker", p.MarkerID)
		if err != nil {
			return err
		}
		if !m.Drag(nativeID, pos) {
			return fmt.Errorf("marker %s is not draggable: %w", p.MarkerID, streaming.ErrInvalidArgument)
		}
	case streaming.SimulateInfoWindowTap:
		nativeID, err := s.view.NativeID("marker", p.MarkerID)
		if err != nil {
			return err
		}
		if !m.InfoWindowTap(nativeID) {
			return fmt.Errorf("info window of %s is not shown: %w", p.MarkerID, streaming.ErrInvalidArgument)
		}
	case streaming.SimulateClick:
		nativeID, err := s.view.NativeID(p.Kind, p.ID)
		if err != nil {
			return err
		}
		if _, ok := m.Click(nativeID); !ok {
			return fmt.Errorf("%s %s: %w", p.Kind, p.ID, streaming.ErrInvalidID)
		}
	case streaming.SimulateCameraMove:
		u, err := convert.ToCameraUpdate(p.CameraUpdate, s.deps.Map.Density)
		if err != nil {
			return fmt.Errorf("cameraMove: %w", err)
		}
		return m.Gesture(u)
	default:
		return fmt.Errorf("unknown simulation %q: %w", f.Simulate, streaming.ErrNotImplemented)
	}
	return nil
}

// send queues a frame for the writer. Frames sent after close are dropped.
func (s *session) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("Failed to encode frame", "error", err)
		return
	}
	select {
	case s.sendCh <- data:
	case <-s.done:
	}
}

// writeLoop drains sendCh. It is the only writer of data frames.
func (s *session) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case data := <-s.sendCh:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.log.Warn("WebSocket SetWriteDeadline error", "error", err)
				_ = s.conn.Close()
				return
			}
			if err := s.conn.WriteMessage(ws.TextMessage, data); err != nil {
				s.log.Warn("WebSocket write error", "error", err)
				_ = s.conn.Close()
				return
			}
		}
	}
}

// shutdown asks the peer to close. The read loop then tears the session down.
func (s *session) shutdown() {
	msg := ws.FormatCloseMessage(ws.CloseGoingAway, "server shutting down")
	_ = s.conn.WriteControl(ws.CloseMessage, msg, time.Now().Add(writeWait))
	_ = s.conn.Close()
}

// dispose stops the ready timer and disposes the view.
func (s *session) dispose() {
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.view != nil {
		s.view.Dispose()
	}
}

// close disposes the view, stops the loop and ends the journal session.
func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)

		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := s.loop.Do(ctx, s.dispose)
		cancel()
		s.loop.Stop()
		<-s.loop.Done()
		if err != nil {
			// The loop is gone, so nothing else touches the view now.
			s.log.Debug("Disposing view off the loop", "reason", err)
			s.dispose()
		}

		s.journal.EndedAt = time.Now()
		if err := s.deps.Journal.EndSession(&s.journal); err != nil {
			s.log.Error("Failed to end journal session", "error", err)
		}
		_ = s.conn.Close()
		s.log.Info("Session closed")
	})
}
