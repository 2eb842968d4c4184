// Package e2e holds the end-to-end tests of the service, run against real
// PostgreSQL and Redis containers (build tag integration_test or all_tests).
package e2e
