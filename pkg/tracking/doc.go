/*
Package tracking adapts a tour session to its persistence and analytics collaborators.

It owns three small concerns:
  - Tracker sends lifecycle events to a ports.EventSink without making the caller wait.
  - Identity keeps a pseudonymous user identifier in a ports.KeyValueStore.
  - Completions keeps the set of completed tour ids in a single comma-joined value.

None of them ever returns an error to the session: storage and transport failures
are logged and degrade to "not completed" or "event dropped".
*/
package tracking
