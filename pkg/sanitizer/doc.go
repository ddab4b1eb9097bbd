// Package sanitizer renders and cleans text coming from the catalog API
// before it reaches a template.
package sanitizer
