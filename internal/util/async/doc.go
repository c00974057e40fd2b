// Package async provides utilities for parallel task execution with
// error collection.
//
// [RunParallel] returns the first error encountered and suits provisioning
// steps that are worthless once any sibling fails. [RunAll] never fails
// fast and aggregates every failure; cluster operations use it so that one
// bad node cannot stop the others from being acted on.
package async
