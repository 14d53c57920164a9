// Package logtail reads the tail of storefront's JSON log file.
//
// Read keeps a ring buffer of the last N lines so memory stays bounded no
// matter how large the file grows. Tail decodes those lines as logrus JSON
// entries for the logs command; anything that is not JSON is passed through
// as a bare message.
//
// A missing log file is not an error: both functions return an empty result.
package logtail
