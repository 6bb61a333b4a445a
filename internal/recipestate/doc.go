// Package recipestate keeps a user's recipe history and favorites consistent.
//
// Every recipe a user sees is one row keyed by (user, identity key). History is
// the user's rows ordered most recent first; favorites are the rows whose
// favorite flag is set. Events for one user are applied one at a time inside a
// transaction that holds that user's lock, so concurrent requests never lose
// each other's writes.
package recipestate
