// Package extract turns raw data files into typed rows.
//
// Song files hold exactly one JSON object describing a track and its artist.
// Log files are newline-delimited JSON activity events; only "NextSong"
// events are kept. Every parse failure is a *sparkify.MalformedRecordError
// naming the file and, for log files, the 1-based line.
package extract
