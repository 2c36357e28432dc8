// Package tmdb provides a client for The Movie Database API.
package tmdb

import (
	"strconv"
)

// MediaType is "movie" or "tv".
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

// Valid reports whether t is movie or tv.
func (t MediaType) Valid() bool {
	return t == MediaMovie || t == MediaTV
}

// Genre ids used by the curated rows.
const (
	GenreAction          = 28
	GenreAdventure       = 12
	GenreAnimation       = 16
	GenreComedy          = 35
	GenreCrime           = 80
	GenreDocumentary     = 99
	GenreDrama           = 18
	GenreFamily          = 10751
	GenreFantasy         = 14
	GenreHistory         = 36
	GenreHorror          = 27
	GenreMusic           = 10402
	GenreMystery         = 9648
	GenreRomance         = 10749
	GenreScienceFiction  = 878
	GenreThriller        = 53
	GenreActionAdventure = 10759 // tv only
	GenreKids            = 10762 // tv only
	GenreNews            = 10763 // tv only
	GenreReality         = 10764 // tv only
)

// NetflixNetworkID is the TMDB network id used by Netflix rows.
const NetflixNetworkID = 213

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Video is a trailer, teaser, or clip attached to a show.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"` // "YouTube"
	Type     string `json:"type"` // "Trailer", "Teaser", ...
	Official bool   `json:"official"`
}

// Show is a movie or series. Movies fill Title/ReleaseDate, series fill
// Name/FirstAirDate.
type Show struct {
	ID               int64     `json:"id"`
	MediaType        MediaType `json:"media_type,omitempty"`
	Title            string    `json:"title,omitempty"`
	Name             string    `json:"name,omitempty"`
	OriginalTitle    string    `json:"original_title,omitempty"`
	OriginalName     string    `json:"original_name,omitempty"`
	OriginalLanguage string    `json:"original_language,omitempty"`
	Overview         string    `json:"overview"`
	ReleaseDate      string    `json:"release_date,omitempty"`
	FirstAirDate     string    `json:"first_air_date,omitempty"`
	PosterPath       string    `json:"poster_path"`
	BackdropPath     string    `json:"backdrop_path"`
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count"`
	Popularity       float64   `json:"popularity"`
	GenreIDs         []int     `json:"genre_ids,omitempty"`
	Genres           []Genre   `json:"genres,omitempty"`
	Runtime          int       `json:"runtime,omitempty"`
	NumberOfSeasons  int       `json:"number_of_seasons,omitempty"`
	Videos           *struct {
		Results []Video `json:"results"`
	} `json:"videos,omitempty"`
}

// DisplayTitle returns Title, falling back to Name.
func (s *Show) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// Year extracts the year from the release or first air date.
func (s *Show) Year() int {
	date := s.ReleaseDate
	if date == "" {
		date = s.FirstAirDate
	}
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// PosterURL returns the full poster image URL.
// Size can be: w92, w154, w185, w342, w500, w780, original
func (s *Show) PosterURL(size string) string {
	if s.PosterPath == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/" + size + s.PosterPath
}

// Trailer returns the first video of type "Trailer", or nil.
func (s *Show) Trailer() *Video {
	if s.Videos == nil {
		return nil
	}
	for i := range s.Videos.Results {
		if s.Videos.Results[i].Type == "Trailer" {
			return &s.Videos.Results[i]
		}
	}
	return nil
}

// Page is one page of list results.
type Page struct {
	Page         int    `json:"page"`
	Results      []Show `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}
