// Package extractors provides format-specific converters from raw file
// bytes to plain text, selected by file-name suffix.
package extractors
