package records

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	pkgdb "github.com/iloveparkjisung/Database-Assesment/pkg/db"
)

const (
	MinEpisodes = 0
	MaxEpisodes = 10000
	MinRating   = 1
	MaxRating   = 10
)

var (
	ReleaseLookup = Lookup{Name: "release year", Table: "release_year", IDColumn: "release_id", LabelColumn: "release"}
	CountryLookup = Lookup{Name: "country", Table: "country", IDColumn: "country_id", LabelColumn: "country"}
	WatchedLookup = Lookup{Name: "watched status", Table: "watched", IDColumn: "watched_id", LabelColumn: "watched"}
)

const dramaTables = `drama
	LEFT JOIN release_year ON drama.release_id = release_year.release_id
	LEFT JOIN country ON drama.country_id = country.country_id
	LEFT JOIN watched ON drama.watched_id = watched.watched_id`

// Drama is one row of the drama tracker with its lookups as labels.
type Drama struct {
	Name     string
	Release  string
	Country  string
	Episodes int
	Status   string
	Rating   int // 0 when not rated
}

const insertDramaStatement = `
	INSERT INTO drama (drama_name, release_id, country_id, episode, watched_id, rating)
	VALUES (?, ?, ?, ?, ?, ?)
	`

// AddDrama resolves the drama's labels to lookup IDs and stores it.
func AddDrama(ctx context.Context, db *sql.DB, d Drama) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("drama name is required: %w", ErrInvalidField)
	}
	if d.Episodes < MinEpisodes || d.Episodes > MaxEpisodes {
		return fmt.Errorf("episodes must be between %d and %d: %w", MinEpisodes, MaxEpisodes, ErrInvalidField)
	}
	if d.Rating != 0 && (d.Rating < MinRating || d.Rating > MaxRating) {
		return fmt.Errorf("rating must be between %d and %d: %w", MinRating, MaxRating, ErrInvalidField)
	}

	releaseID, err := LookupID(ctx, db, ReleaseLookup, d.Release)
	if err != nil {
		return err
	}
	countryID, err := LookupID(ctx, db, CountryLookup, d.Country)
	if err != nil {
		return err
	}
	watchedID, err := LookupID(ctx, db, WatchedLookup, d.Status)
	if err != nil {
		return err
	}

	var rating sql.NullInt64
	if d.Rating != 0 {
		rating = sql.NullInt64{Int64: int64(d.Rating), Valid: true}
	}

	_, err = db.ExecContext(ctx, insertDramaStatement, d.Name, releaseID, countryID, d.Episodes, watchedID, rating)
	if err != nil {
		if pkgdb.IsUniqueViolation(err) {
			return fmt.Errorf("the drama '%s' %w", d.Name, ErrDuplicate)
		}
		if pkgdb.IsCheckViolation(err) {
			return fmt.Errorf("drama '%s' rejected by the database: %w", d.Name, ErrInvalidField)
		}
		return fmt.Errorf("failed to add drama '%s': %w", d.Name, err)
	}
	return nil
}

func ratingChoices() []string {
	choices := make([]string, 0, MaxRating)
	for r := MinRating; r <= MaxRating; r++ {
		choices = append(choices, strconv.Itoa(r))
	}
	return choices
}

var DramaTracker = &Tracker{
	Name:      "drama",
	Title:     "Drama Database",
	Plural:    "dramas",
	DBFile:    "dramadatabase.db",
	Component: pkgdb.DramaComponent,
	Tables:    dramaTables,
	AllFields: []string{"drama_name", "release", "country", "episode", "watched", "rating"},
	// Upcoming dramas are stored with release 0 and sort first.
	AllOrderBy: "release ASC, drama_name ASC",
	Filters: []Filter{
		{
			Key:    "country",
			Label:  "Country",
			Prompt: "What country would you like to see?",
			Fields: []string{"drama_name", "release", "country", "episode"},
			Where:  "country = ? ORDER BY release ASC",
			Lookup: &CountryLookup,
		},
		{
			Key:    "year",
			Label:  "Year",
			Prompt: "What release year would you like to see?",
			Fields: []string{"drama_name", "release", "country", "episode", "watched"},
			Where:  "release = ? ORDER BY drama_name ASC",
			Lookup: &ReleaseLookup,
			Hint:   "2010 - 2029, 0 for upcoming",
		},
		{
			Key:    "watched",
			Label:  "Watched Status",
			Prompt: "Which watched status would you like to see?",
			Fields: []string{"drama_name", "release", "country", "episode", "watched"},
			Where:  "watched = ? ORDER BY release ASC",
			Lookup: &WatchedLookup,
		},
		{
			Key:     "rating",
			Label:   "Rating",
			Prompt:  "What rating would you like to see?",
			Fields:  []string{"drama_name", "rating", "country", "episode", "watched", "release"},
			Where:   "rating = ? ORDER BY drama_name ASC",
			Numeric: true,
			Hint:    "1 - 10",
			Choices: ratingChoices(),
		},
	},
	Views: []View{
		{Name: "All information", Label: "All information"},
		{Name: "Rating below 5", Label: "Dramas rated below 5"},
		{Name: "Rating 5 and over", Label: "Dramas rated 5 and over"},
		{Name: "Top 10 South Korean Drama", Label: "Top 10 South Korean dramas"},
		{Name: "Top 10 Chinese Drama", Label: "Top 10 Chinese dramas"},
		{Name: "Top 10 Thailand Drama", Label: "Top 10 Thai dramas"},
		{Name: "Top 10 Philippines Drama", Label: "Top 10 Philippine dramas"},
		{Name: "Top 10 Japanese Drama", Label: "Top 10 Japanese dramas"},
	},
	Form: Form{
		Title: "Add Drama",
		Fields: []Field{
			{Key: "name", Label: "Drama name", Kind: FieldText, Required: true},
			{Key: "release", Label: "Release year", Kind: FieldChoice, Lookup: &ReleaseLookup, Required: true},
			{Key: "country", Label: "Country", Kind: FieldChoice, Lookup: &CountryLookup, Required: true},
			{Key: "episodes", Label: "Number of episodes", Kind: FieldInt, Min: MinEpisodes, Max: MaxEpisodes, Required: true},
			{Key: "watched", Label: "Watched status", Kind: FieldChoice, Lookup: &WatchedLookup, Required: true},
			{Key: "rating", Label: "Rating", Kind: FieldInt, Min: MinRating, Max: MaxRating},
		},
		Insert: func(ctx context.Context, db *sql.DB, vals Values) (string, error) {
			d := Drama{
				Name:     vals["name"],
				Release:  vals["release"],
				Country:  vals["country"],
				Episodes: atoiOrZero(vals["episodes"]),
				Status:   vals["watched"],
				Rating:   atoiOrZero(vals["rating"]),
			}
			if err := AddDrama(ctx, db, d); err != nil {
				return "", err
			}
			return "Drama added successfully!", nil
		},
	},
}
