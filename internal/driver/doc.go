// Package driver runs the front end over files on disk: tokenize, parse,
// check many files in parallel and sync a file against the todo store.
package driver
