// Package http contains the chi handlers of the summary service. Errors are
// rendered as RFC 7807 problem details through errors.ErrorHandler.
package http
