/*
Package observability provides lifecycle hooks for monitoring practice sessions.

It includes Prometheus metrics for transitions, backend requests, rejected intents and
discarded responses, and a logging hook set for auditing transitions at debug level.
Both are plain domain.LifecycleHooks and can be combined with domain.ChainHooks.
*/
package observability
