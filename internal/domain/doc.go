// Package domain defines the core business types for the subscriber list.
//
// Types in this package are pure value objects with no storage or HTTP
// concerns. They are the shared language between handlers, the subscriber
// service, and the record store.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No http.Request, no context.Context in struct fields
//   - JSON tags are allowed (they're metadata, not behavior)
//   - Constants and enums belong here
package domain
