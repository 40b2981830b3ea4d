/*
Package domain contains the core domain models of the Tourflow playback engine.

It defines the tour definition, the session snapshot, the geometry used by the
positioner and the lifecycle events emitted while a tour plays. This package is
kept pure and free of external dependencies like I/O, the host surface or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Tour: an ordered, immutable list of Steps loaded into a session.
  - Step: one stop of the tour (text, target descriptor, placement hint).
  - SessionState: the runtime snapshot of a session (status, index, tour).
  - Rect / Viewport / Position: the geometry shared by the positioner and surfaces.
  - Event: a lifecycle signal (view, step_view, skip, complete) sent to a sink.
*/
package domain
