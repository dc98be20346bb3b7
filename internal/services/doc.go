// Package services contains the application service layer between the HTTP
// transport and the catalog/resolver core. Services own snapshot caching,
// metrics recording, and translation into the external contract types.
package services
