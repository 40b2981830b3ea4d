/*
Package ports defines the driven ports (interfaces) of the Tourflow engine.

These interfaces decouple the playback core from the page it runs against and
from the services it talks to, so the same session logic drives a real browser,
a scripted layout in tests, or a terminal preview.

# Key Interfaces

  - HostSurface: the minimal capability the core needs from a page (query, bounds, scroll, mount, draw).
  - TourSource: fetches a tour definition by id (remote service, file library, memory).
  - EventSink: receives fire-and-forget lifecycle events.
  - KeyValueStore: local persisted state (completion record, user identifier).
  - TourRepository / EventStore: the service-side persistence behind the HTTP API.
  - DistributedLocker: serializes writers across service replicas.
*/
package ports
