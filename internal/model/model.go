package model

import "time"

// RawRecord is one entry of the input movies document. Every field is
// kept as text; parsing happens in the pipeline.
type RawRecord struct {
	Title     string `json:"Title"`
	Year      string `json:"Year"`
	Released  string `json:"Released"`
	BoxOffice string `json:"BoxOffice"`
	Genre     string `json:"Genre"`
}

// MovieRecord is the normalized, inflation-adjusted form of a RawRecord.
type MovieRecord struct {
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Year      int       `json:"year"`
	Genre     string    `json:"genre"`
	BoxOffice float64   `json:"boxOffice"`
}
