// Package services holds the application services behind the HTTP handlers:
// dataset summarization and health reporting.
package services
