package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// ParseSongFile parses a song metadata file into its song and artist rows.
// The file must contain exactly one JSON object.
func ParseSongFile(path string, content []byte) (sparkify.Song, sparkify.Artist, error) {
	dec := json.NewDecoder(bytes.NewReader(content))

	var first json.RawMessage
	if err := dec.Decode(&first); err != nil {
		if errors.Is(err, io.EOF) {
			return sparkify.Song{}, sparkify.Artist{}, malformed(path, 0, "file contains no JSON object")
		}
		return sparkify.Song{}, sparkify.Artist{}, malformed(path, 0, "invalid JSON: %v", err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return sparkify.Song{}, sparkify.Artist{}, malformed(path, 0, "invalid JSON after first object: %v", err)
		}
		return sparkify.Song{}, sparkify.Artist{}, malformed(path, 0, "file contains more than one JSON object")
	}

	rec, err := decodeRecord(path, 0, first)
	if err != nil {
		return sparkify.Song{}, sparkify.Artist{}, err
	}

	song, err := rec.song()
	if err != nil {
		return sparkify.Song{}, sparkify.Artist{}, err
	}
	artist, err := rec.artist()
	if err != nil {
		return sparkify.Song{}, sparkify.Artist{}, err
	}
	return song, artist, nil
}

// Keys every song file must carry, in the order they are checked.
var songFileFields = []string{
	"song_id", "title", "artist_id", "year", "duration",
	"artist_name", "artist_location", "artist_latitude", "artist_longitude",
}

func (r *record) song() (sparkify.Song, error) {
	for _, key := range songFileFields {
		if !r.has(key) {
			return sparkify.Song{}, r.fail("missing required field %q", key)
		}
	}

	var s sparkify.Song
	var err error
	if s.ID, err = r.str("song_id"); err != nil {
		return s, err
	}
	if s.Title, err = r.str("title"); err != nil {
		return s, err
	}
	if s.ArtistID, err = r.str("artist_id"); err != nil {
		return s, err
	}
	if s.Year, err = r.int("year"); err != nil {
		return s, err
	}
	if s.Duration, err = r.float("duration"); err != nil {
		return s, err
	}
	return s, nil
}

func (r *record) artist() (sparkify.Artist, error) {
	var a sparkify.Artist
	var err error
	if a.ID, err = r.str("artist_id"); err != nil {
		return a, err
	}
	if a.Name, err = r.str("artist_name"); err != nil {
		return a, err
	}
	if a.Location, err = r.optStr("artist_location"); err != nil {
		return a, err
	}
	if a.Latitude, err = r.optFloat("artist_latitude"); err != nil {
		return a, err
	}
	if a.Longitude, err = r.optFloat("artist_longitude"); err != nil {
		return a, err
	}
	return a, nil
}
