// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (accounts, roles, errors) and contracts only.
package domain
