// Package favorites implements the session-scoped favorites collection.
//
// The collection is ordered by insertion and holds at most one Entry per meal
// id. It is loaded once from session storage and written back, in full, after
// every successful mutation. A failed write leaves the in-memory collection
// untouched so the two never disagree.
//
// The stored JSON uses the same field names as the meal records
// (idMeal, strMeal, strMealThumb, strCategory, strArea) plus savedAt.
package favorites
