/*
Package analytics turns recorded tour events into the numbers authors look at.

Summarize computes the per-tour dashboard (views, completions, skips, completion
rate and per-step reach) from stored events. Collector exposes the same signals
as Prometheus counters, either on the service that receives events or wrapped
around any ports.EventSink on the client side.
*/
package analytics
