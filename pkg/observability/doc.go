/*
Package observability exports machine activity as Prometheus metrics.

Metrics are collected through domain.LifecycleHooks, so any machine built with
transducer.WithLifecycleHooks(metrics.Hooks()) is counted without further
wiring.
*/
package observability
