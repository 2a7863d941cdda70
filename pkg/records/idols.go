package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	pkgdb "github.com/iloveparkjisung/Database-Assesment/pkg/db"
)

var (
	GroupLookup     = Lookup{Name: "kpop group", Table: "groups", IDColumn: "group_id", LabelColumn: "kpop_group"}
	EthnicityLookup = Lookup{Name: "ethnicity", Table: "ethnicitys", IDColumn: "ethnicity_id", LabelColumn: "ethnicity"}
	AgeLookup       = Lookup{Name: "age", Table: "ages", IDColumn: "age_id", LabelColumn: "age"}
)

const idolTables = `idol
	LEFT JOIN ethnicitys ON idol.ethnicity_id = ethnicitys.ethnicity_id
	LEFT JOIN groups ON idol.group_id = groups.group_id
	LEFT JOIN ages ON idol.age_id = ages.age_id`

const (
	MinHeight = 100
	MaxHeight = 250
)

type Idol struct {
	RealName  string
	StageName string
	Birthday  string // YYYY-MM-DD, optional
	Height    int    // centimetres, 0 when unknown
	Instagram string
	Ethnicity string
	Group     string
	Age       string
}

const insertIdolStatement = `
	INSERT INTO idol (real_name, stage_name, birthday, height, instagram, ethnicity_id, group_id, age_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

// AddIdol stores an idol. Group, ethnicity and age must be known lookup values.
func AddIdol(ctx context.Context, db *sql.DB, idol Idol) error {
	idol.RealName = strings.TrimSpace(idol.RealName)
	idol.StageName = strings.TrimSpace(idol.StageName)
	if idol.RealName == "" || idol.StageName == "" {
		return fmt.Errorf("real name and stage name are required: %w", ErrInvalidField)
	}
	if idol.Height != 0 && (idol.Height < MinHeight || idol.Height > MaxHeight) {
		return fmt.Errorf("height must be between %d and %d: %w", MinHeight, MaxHeight, ErrInvalidField)
	}

	groupID, err := LookupID(ctx, db, GroupLookup, idol.Group)
	if err != nil {
		return err
	}
	ethnicityID, err := LookupID(ctx, db, EthnicityLookup, idol.Ethnicity)
	if err != nil {
		return err
	}
	ageID, err := LookupID(ctx, db, AgeLookup, idol.Age)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, insertIdolStatement,
		idol.RealName, idol.StageName, nullIfEmpty(idol.Birthday), nullIfZero(idol.Height),
		nullIfEmpty(idol.Instagram), ethnicityID, groupID, ageID)
	if err != nil {
		if pkgdb.IsUniqueViolation(err) {
			return fmt.Errorf("the idol '%s' in %s %w", idol.StageName, idol.Group, ErrDuplicate)
		}
		return fmt.Errorf("failed to add idol '%s': %w", idol.StageName, err)
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func nullIfZero(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

var KpopTracker = &Tracker{
	Name:       "kpop",
	Title:      "Kpop Database",
	Plural:     "idols",
	DBFile:     "kpop.db",
	Component:  pkgdb.KpopComponent,
	Tables:     idolTables,
	AllFields:  []string{"kpop_group", "real_name", "stage_name", "age", "birthday", "ethnicity", "height", "instagram"},
	AllOrderBy: "kpop_group ASC, stage_name ASC",
	Filters: []Filter{
		{
			Key:    "group",
			Label:  "Kpop group members",
			Prompt: "Which kpop group would you like to see?",
			Fields: []string{"kpop_group", "real_name", "stage_name", "age"},
			Where:  "kpop_group = ? ORDER BY age DESC",
			Lookup: &GroupLookup,
		},
		{
			Key:     "height",
			Label:   "Idols height",
			Prompt:  "What height would you like to see?",
			Fields:  []string{"kpop_group", "real_name", "stage_name", "age", "height"},
			Where:   "height = ? ORDER BY age DESC",
			Numeric: true,
			Hint:    "165 - 187",
		},
		{
			Key:    "ethnicity",
			Label:  "Ethnicity",
			Prompt: "Which ethnicity would you like to see?",
			Fields: []string{"kpop_group", "real_name", "stage_name", "age", "ethnicity"},
			Where:  "ethnicity = ? ORDER BY age DESC",
			Lookup: &EthnicityLookup,
		},
		{
			Key:     "age",
			Label:   "Idols age",
			Prompt:  "What age would you like to see?",
			Fields:  []string{"kpop_group", "real_name", "stage_name", "age"},
			Where:   "age = ? ORDER BY stage_name ASC",
			Lookup:  &AgeLookup,
			Numeric: true,
			Hint:    "19 - 29",
		},
	},
	Views: []View{
		{Name: "All information", Label: "All information"},
		{Name: "Top 10 oldest", Label: "Top 10 oldest"},
		{Name: "Top 10 tallest", Label: "Top 10 tallest"},
		{Name: "Top 10 Youngest", Label: "Top 10 youngest"},
		{Name: "All the lee in kpop", Label: "All the Lee's in kpop"},
	},
	Form: Form{
		Title: "Add Idol",
		Fields: []Field{
			{Key: "real_name", Label: "Real name", Kind: FieldText, Required: true},
			{Key: "stage_name", Label: "Stage name", Kind: FieldText, Required: true},
			{Key: "group", Label: "Kpop group", Kind: FieldChoice, Lookup: &GroupLookup, Required: true},
			{Key: "age", Label: "Age", Kind: FieldChoice, Lookup: &AgeLookup, Required: true},
			{Key: "ethnicity", Label: "Ethnicity", Kind: FieldChoice, Lookup: &EthnicityLookup, Required: true},
			{Key: "birthday", Label: "Birthday (YYYY-MM-DD)", Kind: FieldText},
			{Key: "height", Label: "Height (cm)", Kind: FieldInt, Min: MinHeight, Max: MaxHeight},
			{Key: "instagram", Label: "Instagram", Kind: FieldText},
		},
		Insert: func(ctx context.Context, db *sql.DB, vals Values) (string, error) {
			idol := Idol{
				RealName:  vals["real_name"],
				StageName: vals["stage_name"],
				Birthday:  vals["birthday"],
				Height:    atoiOrZero(vals["height"]),
				Instagram: vals["instagram"],
				Ethnicity: vals["ethnicity"],
				Group:     vals["group"],
				Age:       vals["age"],
			}
			if err := AddIdol(ctx, db, idol); err != nil {
				return "", err
			}
			return fmt.Sprintf("Idol '%s' added successfully!", strings.TrimSpace(idol.StageName)), nil
		},
	},
}
