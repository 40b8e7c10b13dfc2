/*
Package observability turns engine lifecycle events into metrics.

Metrics exports Prometheus counters for steps, commands, subgoal advances and episode
outcomes. Tally keeps an in-process summary of finished episodes for run reports.
Both are attached to an engine through the domain.LifecycleHooks they return.
*/
package observability
