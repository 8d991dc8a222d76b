package service

import (
	"github.com/user/streamfinder/internal/model"
)

// DemoCatalog 内置演示数据，API 不可用时的兜底来源
type DemoCatalog struct {
	movies []model.Movie
}

// NewDemoCatalog 创建演示数据集
func NewDemoCatalog() *DemoCatalog {
	return &DemoCatalog{movies: demoMovies()}
}

// Match 标题或类型名包含 query（忽略大小写），保持表内顺序
func (d *DemoCatalog) Match(query string) []model.Movie {
	matched := make([]model.Movie, 0, len(d.movies))
	for _, m := range d.movies {
		if m.Matches(query) {
			matched = append(matched, m)
		}
	}
	return matched
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func posters(file string) *model.ImageSet {
	set := make(map[string]string, 5)
	for _, w := range []string{"w240", "w360", "w480", "w600", "w720"} {
		set[w] = "https://image.tmdb.org/t/p/" + w + "/" + file
	}
	return &model.ImageSet{VerticalPoster: set}
}

var (
	genreAction    = model.Genre{ID: "1", Name: "Action"}
	genreAdventure = model.Genre{ID: "2", Name: "Adventure"}
	genreDrama     = model.Genre{ID: "3", Name: "Drama"}
	genreCrime     = model.Genre{ID: "4", Name: "Crime"}
	genreSciFi     = model.Genre{ID: "5", Name: "Sci-Fi"}
	genreThriller  = model.Genre{ID: "6", Name: "Thriller"}

	primeRent = model.StreamingOffer{
		Service: model.StreamingService{ID: "prime", Name: "Amazon Prime"},
		Type:    "rent",
		Link:    "https://amazon.com",
	}
)

func subscription(id, name, link string) model.StreamingOffer {
	return model.StreamingOffer{
		Service: model.StreamingService{ID: id, Name: name},
		Type:    "subscription",
		Link:    link,
	}
}

func demoMovies() []model.Movie {
	return []model.Movie{
		{
			ID:          "1",
			Title:       "Avengers: Endgame",
			Overview:    "After the devastating events of Avengers: Infinity War, the universe is in ruins. With the help of remaining allies, the Avengers assemble once more in order to reverse Thanos' actions and restore balance to the universe.",
			ReleaseYear: intPtr(2019),
			Genres:      []model.Genre{genreAction, genreAdventure, genreDrama},
			Rating:      floatPtr(8.4),
			Runtime:     intPtr(181),
			ImageSet:    posters("or06FN3Dka5tukK1e9sl16pB3iy.jpg"),
			StreamingOptions: map[string][]model.StreamingOffer{
				"us": {subscription("disney", "Disney+", "https://disneyplus.com"), primeRent},
			},
		},
		{
			ID:          "2",
			Title:       "The Dark Knight",
			Overview:    "Batman raises the stakes in his war on crime. With the help of Lt. Jim Gordon and District Attorney Harvey Dent, Batman sets out to dismantle the remaining criminal organizations that plague the streets.",
			ReleaseYear: intPtr(2008),
			Genres:      []model.Genre{genreAction, genreCrime, genreDrama},
			Rating:      floatPtr(9.0),
			Runtime:     intPtr(152),
			ImageSet:    posters("qJ2tW6WMUDux911r6m7haRef0WH.jpg"),
			StreamingOptions: map[string][]model.StreamingOffer{
				"us": {subscription("hbo", "HBO Max", "https://hbomax.com"), primeRent},
			},
		},
		{
			ID:          "3",
			Title:       "Inception",
			Overview:    "Dom Cobb is a skilled thief, the absolute best in the dangerous art of extraction, stealing valuable secrets from deep within the subconscious during the dream state.",
			ReleaseYear: intPtr(2010),
			Genres:      []model.Genre{genreAction, genreSciFi, genreThriller},
			Rating:      floatPtr(8.8),
			Runtime:     intPtr(148),
			ImageSet:    posters("9gk7adHYeDvHkCSEqAvQNLV5Uge.jpg"),
			StreamingOptions: map[string][]model.StreamingOffer{
				"us": {subscription("netflix", "Netflix", "https://netflix.com"), primeRent},
			},
		},
		{
			ID:          "4",
			Title:       "Interstellar",
			Overview:    "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
			ReleaseYear: intPtr(2014),
			Genres:      []model.Genre{genreAdventure, genreDrama, genreSciFi},
			Rating:      floatPtr(8.6),
			Runtime:     intPtr(169),
			ImageSet:    posters("gEU2QniE6E77NI6lCU6MxlNBvIx.jpg"),
			StreamingOptions: map[string][]model.StreamingOffer{
				"us": {subscription("paramount", "Paramount+", "https://paramountplus.com"), primeRent},
			},
		},
	}
}
