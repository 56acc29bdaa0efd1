// Package services implements the commands of the sparkify CLI on top of the
// connection, schema and pipeline packages.
//
// A Service opens one sparkify.Session per command and closes it on every
// exit path. Database creation and removal go through a separate connection
// to the maintenance database.
package services
