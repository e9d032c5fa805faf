// Package mealdb provides an HTTP client for the TheMealDB JSON API.
//
// Two read-only endpoints are used:
//
//   - random.php: returns {"meals":[record]} with one random meal
//   - lookup.php?i={id}: returns {"meals":[record]} or {"meals":null}
//
// Records are decoded loosely (every value is a string or null) and projected
// into Meal, which keeps all twenty ingredient slots in index order. Skipping
// blank slots is left to the renderer.
//
// # Errors
//
// Every failure is a *FetchError. Its Kind records the cause for logging:
// transport, status, decode, empty, or not_found. Failure() collapses these
// into NetworkOrFormat and NotFound, and errors.Is(err, ErrNotFound) holds for
// lookups that returned nothing.
//
// No retries are performed. The HTTP timeout comes from config and defaults to
// none, so a hung endpoint is only cut short by context cancellation.
package mealdb
