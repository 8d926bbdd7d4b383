// Package domain contains the core business entities, value objects, and
// domain logic of the task list. It is independent of any specific storage
// backend or delivery mechanism.
package domain
