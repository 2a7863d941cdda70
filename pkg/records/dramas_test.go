package records

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleShow() Drama {
	return Drama{
		Name:     "Example Show",
		Release:  "2021",
		Country:  "China",
		Episodes: 16,
		Status:   "Watched",
		Rating:   8,
	}
}

func filterByKey(t *testing.T, tr *Tracker, key string) Filter {
	t.Helper()
	f, err := tr.Filter(key)
	require.NoError(t, err)
	return f
}

func TestExampleShowFoundByCountryNotByOtherRating(t *testing.T) {
	db := setupTestDB(t, DramaTracker)
	ctx := context.Background()

	require.NoError(t, AddDrama(ctx, db, exampleShow()))

	res, err := DramaTracker.FilterBy(ctx, db, filterByKey(t, DramaTracker, "country"), "China")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []string{"Example Show", "2021", "China", "16"}, res.Rows[0])

	res, err = DramaTracker.FilterBy(ctx, db, filterByKey(t, DramaTracker, "rating"), "9")
	require.NoError(t, err)
	assert.True(t, res.Empty())

	res, err = DramaTracker.FilterBy(ctx, db, filterByKey(t, DramaTracker, "rating"), "8")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Example Show", res.Rows[0][0])
}

func TestFilterByAbsentValueIsEmpty(t *testing.T) {
	db := setupTestDB(t, DramaTracker)
	ctx := context.Background()
	require.NoError(t, AddDrama(ctx, db, exampleShow()))

	country := filterByKey(t, DramaTracker, "country")
	res, err := DramaTracker.FilterBy(ctx, db, country, "Narnia")
	require.NoError(t, err)
	assert.True(t, res.Empty())

	_, err = country.Validate(ctx, db, "Narnia")
	assert.ErrorIs(t, err, ErrLookupNotFound)

	res, err = DramaTracker.FilterBy(ctx, db, country, "china")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1, "lookup values match ignoring case")
}

func TestShowAllResolvesLabels(t *testing.T) {
	db := setupTestDB(t, DramaTracker)
	ctx := context.Background()

	dramas := []Drama{
		exampleShow(),
		{Name: "Hidden Love", Release: "2023", Country: "China", Episodes: 25, Status: "Plan on Watching"},
		{Name: "Moving", Release: "2023", Country: "South Korea", Episodes: 20, Status: "On-Hold", Rating: 10},
	}
	for _, d := range dramas {
		require.NoError(t, AddDrama(ctx, db, d))
	}

	res, err := DramaTracker.ShowAll(ctx, db)
	require.NoError(t, err)
	require.Len(t, res.Rows, len(dramas))
	assert.Equal(t, []string{"drama_name", "release", "country", "episode", "watched", "rating"}, res.Columns)
	assert.Equal(t, []string{"Example Show", "2021", "China", "16", "Watched", "8"}, res.Rows[0])
	assert.Equal(t, []string{"Hidden Love", "2023", "China", "25", "Plan on Watching", ""}, res.Rows[1])
	assert.Equal(t, []string{"Moving", "2023", "South Korea", "20", "On-Hold", "10"}, res.Rows[2])
}

func TestAddDramaValidation(t *testing.T) {
	db := setupTestDB(t, DramaTracker)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(d *Drama)
		wantErr error
	}{
		{"missing name", func(d *Drama) { d.Name = "  " }, ErrInvalidField},
		{"too many episodes", func(d *Drama) { d.Episodes = 10001 }, ErrInvalidField},
		{"negative episodes", func(d *Drama) { d.Episodes = -1 }, ErrInvalidField},
		{"rating too high", func(d *Drama) { d.Rating = 11 }, ErrInvalidField},
		{"unknown country", func(d *Drama) { d.Country = "Narnia" }, ErrLookupNotFound},
		{"unknown year", func(d *Drama) { d.Release = "1999" }, ErrLookupNotFound},
		{"unknown status", func(d *Drama) { d.Status = "Binged" }, ErrLookupNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := exampleShow()
			tt.mutate(&d)
			assert.ErrorIs(t, AddDrama(ctx, db, d), tt.wantErr)
		})
	}

	res, err := DramaTracker.ShowAll(ctx, db)
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestAddDramaDuplicate(t *testing.T) {
	db := setupTestDB(t, DramaTracker)
	ctx := context.Background()

	require.NoError(t, AddDrama(ctx, db, exampleShow()))
	err := AddDrama(ctx, db, exampleShow())
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.EqualError(t, err, "the drama 'Example Show' already exists")
}

func TestDramaViews(t *testing.T) {
	db := setupTestDB(t, DramaTracker)
	ctx := context.Background()

	require.NoError(t, AddDrama(ctx, db, exampleShow()))
	require.NoError(t, AddDrama(ctx, db, Drama{Name: "Low One", Release: "2015", Country: "Japan", Episodes: 10, Status: "Dropped", Rating: 3}))

	res, err := ViewQuery(ctx, db, "Top 10 Chinese Drama")
	require.NoError(t, err)
	assert.Equal(t, []string{"drama_name", "rating", "release", "episode"}, res.Columns)
	assert.Equal(t, [][]string{{"Example Show", "8", "2021", "16"}}, res.Rows)

	res, err = ViewQuery(ctx, db, "Rating below 5")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Low One", res.Rows[0][0])

	res, err = ViewQuery(ctx, db, "Top 10 Japanese Drama")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1)
}

func TestDramaFormSubmit(t *testing.T) {
	db := setupTestDB(t, DramaTracker)
	ctx := context.Background()
	form := DramaTracker.Form

	vals := Values{
		"name":     "Form Drama",
		"release":  "2024",
		"country":  "thailand",
		"episodes": "12",
		"watched":  "watched",
		"rating":   "",
	}
	msg, err := form.Submit(ctx, db, vals)
	require.NoError(t, err)
	assert.Equal(t, "Drama added successfully!", msg)

	res, err := DramaTracker.FilterBy(ctx, db, filterByKey(t, DramaTracker, "country"), "Thailand")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	vals["name"] = "Another"
	vals["episodes"] = "many"
	_, err = form.Submit(ctx, db, vals)
	assert.ErrorIs(t, err, ErrInvalidField)

	vals["episodes"] = "12"
	vals["country"] = "Atlantis"
	_, err = form.Submit(ctx, db, vals)
	assert.ErrorIs(t, err, ErrLookupNotFound)
}

func TestDramaFormSubmitTrimsValues(t *testing.T) {
	db := setupTestDB(t, DramaTracker)
	ctx := context.Background()

	vals := Values{
		"name":     "  Padded Drama ",
		"release":  " 2021",
		"country":  " China ",
		"episodes": " 16 ",
		"watched":  "Watched ",
		"rating":   " 7",
	}
	require.NoError(t, DramaTracker.Form.Validate(ctx, db, vals))

	msg, err := DramaTracker.Form.Submit(ctx, db, vals)
	require.NoError(t, err)
	assert.Equal(t, "Drama added successfully!", msg)

	res, err := DramaTracker.FilterBy(ctx, db, filterByKey(t, DramaTracker, "country"), "China")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Padded Drama", "2021", "China", "16"}}, res.Rows)

	id, err := LookupID(ctx, db, CountryLookup, " china ")
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestFilterValidate(t *testing.T) {
	db := setupTestDB(t, DramaTracker)
	ctx := context.Background()

	rating := filterByKey(t, DramaTracker, "rating")
	got, err := rating.Validate(ctx, db, " 7 ")
	require.NoError(t, err)
	assert.Equal(t, "7", got)

	_, err = rating.Validate(ctx, db, "seven")
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = rating.Validate(ctx, db, "11")
	assert.ErrorIs(t, err, ErrLookupNotFound)

	year := filterByKey(t, DramaTracker, "year")
	got, err = year.Validate(ctx, db, "2021")
	require.NoError(t, err)
	assert.Equal(t, "2021", got)

	_, err = DramaTracker.Filter("genre")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}
