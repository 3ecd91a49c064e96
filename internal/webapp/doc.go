// Package webapp serves the fixture web application shipped in the managed
// repository's projects directory: three JSON routes plus static files.
package webapp
