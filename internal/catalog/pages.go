package catalog

import "github.com/vmunix/streamverse/internal/tmdb"

// Page names.
const (
	PageHome   = "home"
	PageMovies = "movies"
	PageTV     = "tv"
)

// RowSpec is a titled row on a page.
type RowSpec struct {
	Title   string          `json:"title"`
	Request tmdb.RowRequest `json:"request"`
}

func movieRow(title string, kind tmdb.RowKind, genre int) RowSpec {
	return RowSpec{Title: title, Request: tmdb.RowRequest{Kind: kind, MediaType: tmdb.MediaMovie, Genre: genre}}
}

func tvRow(title string, kind tmdb.RowKind, genre int) RowSpec {
	return RowSpec{Title: title, Request: tmdb.RowRequest{Kind: kind, MediaType: tmdb.MediaTV, Genre: genre}}
}

// Pages lists the rows of each browse page, in display order.
var Pages = map[string][]RowSpec{
	PageHome: {
		movieRow("Blockbuster Hits", tmdb.RowPopular, 0),
		tvRow("Trending TV Shows", tmdb.RowTrending, 0),
		movieRow("Top Rated Movies", tmdb.RowTopRated, 0),
		tvRow("Top Rated TV Shows", tmdb.RowTopRated, 0),
		movieRow("Comedy Movies", tmdb.RowGenre, tmdb.GenreComedy),
		tvRow("Sitcoms & Comedy Shows", tmdb.RowGenre, tmdb.GenreComedy),
		movieRow("Action Movies", tmdb.RowGenre, tmdb.GenreAction),
		tvRow("Crime & Thriller Shows", tmdb.RowGenre, tmdb.GenreCrime),
		movieRow("Romance Movies", tmdb.RowGenre, tmdb.GenreRomance),
		tvRow("Drama Series", tmdb.RowGenre, tmdb.GenreDrama),
		movieRow("Sci-Fi & Fantasy Movies", tmdb.RowGenre, tmdb.GenreScienceFiction),
		tvRow("Anime Series", tmdb.RowGenre, tmdb.GenreAnimation),
		movieRow("Korean Movies", tmdb.RowKorean, tmdb.GenreThriller),
		tvRow("Netflix TV Shows", tmdb.RowNetflix, 0),
		movieRow("Family Movies", tmdb.RowGenre, tmdb.GenreFamily),
		tvRow("Reality Shows", tmdb.RowGenre, tmdb.GenreReality),
		movieRow("Documentaries", tmdb.RowGenre, tmdb.GenreDocumentary),
		tvRow("TV Dramas & Mysteries", tmdb.RowGenre, tmdb.GenreMystery),
	},
	PageMovies: {
		movieRow("Trending Now", tmdb.RowTrending, 0),
		movieRow("Netflix Movies", tmdb.RowNetflix, 0),
		movieRow("Popular", tmdb.RowPopular, 0),
		movieRow("Top Rated", tmdb.RowTopRated, 0),
		movieRow("Action", tmdb.RowGenre, tmdb.GenreAction),
		movieRow("Adventure", tmdb.RowGenre, tmdb.GenreAdventure),
		movieRow("Animation", tmdb.RowGenre, tmdb.GenreAnimation),
		movieRow("Comedy", tmdb.RowGenre, tmdb.GenreComedy),
		movieRow("Crime", tmdb.RowGenre, tmdb.GenreCrime),
		movieRow("Documentary", tmdb.RowGenre, tmdb.GenreDocumentary),
		movieRow("Drama", tmdb.RowGenre, tmdb.GenreDrama),
		movieRow("Family", tmdb.RowGenre, tmdb.GenreFamily),
		movieRow("Fantasy", tmdb.RowGenre, tmdb.GenreFantasy),
		movieRow("History", tmdb.RowGenre, tmdb.GenreHistory),
		movieRow("Horror", tmdb.RowGenre, tmdb.GenreHorror),
		movieRow("Music", tmdb.RowGenre, tmdb.GenreMusic),
	},
	PageTV: {
		tvRow("Trending Now", tmdb.RowTrending, 0),
		tvRow("Netflix TV Shows", tmdb.RowNetflix, 0),
		tvRow("Top Rated", tmdb.RowTopRated, 0),
		tvRow("Most Popular", tmdb.RowPopular, 0),
		tvRow("Action & Adventure", tmdb.RowGenre, tmdb.GenreActionAdventure),
		tvRow("Animation", tmdb.RowGenre, tmdb.GenreAnimation),
		tvRow("Comedy", tmdb.RowGenre, tmdb.GenreComedy),
		tvRow("Crime", tmdb.RowGenre, tmdb.GenreCrime),
		tvRow("Documentary", tmdb.RowGenre, tmdb.GenreDocumentary),
		tvRow("Drama", tmdb.RowGenre, tmdb.GenreDrama),
		tvRow("Family", tmdb.RowGenre, tmdb.GenreFamily),
		tvRow("Kids", tmdb.RowGenre, tmdb.GenreKids),
		tvRow("Mystery", tmdb.RowGenre, tmdb.GenreMystery),
		tvRow("News", tmdb.RowGenre, tmdb.GenreNews),
	},
}
