// Package models holds the records persisted by the portfolio API and the
// JSON shapes it serves.
package models
