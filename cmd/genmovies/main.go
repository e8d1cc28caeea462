package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"boxoffice/internal/model"
)

func main() {
	var count int
	var outputFile string
	var seed int64
	var dirty float64
	flag.IntVar(&count, "count", 200, "number of movies to generate")
	flag.StringVar(&outputFile, "output", "testdata/movies.json", "output file")
	flag.Int64Var(&seed, "seed", 1, "random seed")
	flag.Float64Var(&dirty, "dirty", 0.15, "fraction of records with missing or malformed fields")
	flag.Parse()

	if err := generateMovies(count, outputFile, seed, dirty); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

var (
	genres = []string{"Action", "Adventure", "Animation", "Comedy", "Crime", "Drama", "Horror", "Sci-Fi", "Thriller"}
	words  = []string{"Last", "Night", "Return", "Iron", "Silent", "Dark", "River", "Storm", "Kingdom", "Shadow", "Star", "Road"}
	usd    = message.NewPrinter(language.English)
)

func generateMovies(count int, outputFile string, seed int64, dirty float64) error {
	rng := rand.New(rand.NewSource(seed))

	movies := make([]model.RawRecord, 0, count)
	for i := 0; i < count; i++ {
		released := time.Date(2000+rng.Intn(20), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
		m := model.RawRecord{
			Title:     fmt.Sprintf("%s %s %d", words[rng.Intn(len(words))], words[rng.Intn(len(words))], i+1),
			Year:      released.Format("2006"),
			Released:  released.Format("02 Jan 2006"),
			BoxOffice: usd.Sprintf("$%d", 1_000_000+rng.Int63n(600_000_000)),
			Genre:     genreList(rng),
		}
		if rng.Float64() < dirty {
			spoil(rng, &m)
		}
		movies = append(movies, m)
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(movies); err != nil {
		return fmt.Errorf("encode movies: %w", err)
	}

	log.Printf("generated %d movies to %s", count, outputFile)
	return nil
}

func genreList(rng *rand.Rand) string {
	n := 1 + rng.Intn(3)
	picked := rng.Perm(len(genres))[:n]
	out := genres[picked[0]]
	for _, p := range picked[1:] {
		out += ", " + genres[p]
	}
	return out
}

// spoil makes m look like the gaps found in scraped catalog data.
func spoil(rng *rand.Rand, m *model.RawRecord) {
	switch rng.Intn(5) {
	case 0:
		m.BoxOffice = "N/A"
	case 1:
		m.BoxOffice = "$0"
	case 2:
		m.Released = "N/A"
	case 3:
		m.Year = m.Year + "–" + fmt.Sprint(2001+rng.Intn(20))
	case 4:
		m.Genre = "N/A"
	}
}
