// Package registry is a small client for the GitHub Actions secret and
// variable endpoints of one repository.
//
// It covers exactly what a sync run needs: ensuring an environment
// exists, listing repository secrets and environment secrets and
// variables, fetching the public keys secrets are sealed against, and
// writing secrets and variables. Secrets are never readable; listing
// returns names only.
//
// Every request is authenticated with a bearer token, pinned to API
// version 2022-11-28 and paced by a token bucket limiter. Non-2xx
// responses are returned as *APIError. The client never retries.
package registry
