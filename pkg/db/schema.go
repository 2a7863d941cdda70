package db

// Component is one independently versioned schema living in a tracker database file.
type Component struct {
	Name   string
	Schema string
}

const (
	// VersionsSchema creates the bookkeeping table shared by all components.
	VersionsSchema = `
CREATE TABLE IF NOT EXISTS tracker_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);
`

	// DramaSchemaV1 defines the drama tracker: three lookup tables, the drama
	// fact table and the named views shown by the menus.
	DramaSchemaV1 = `
CREATE TABLE IF NOT EXISTS release_year (
    release_id INTEGER PRIMARY KEY,
    release TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS country (
    country_id INTEGER PRIMARY KEY,
    country TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS watched (
    watched_id INTEGER PRIMARY KEY,
    watched TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS drama (
    drama_name TEXT PRIMARY KEY,
    release_id INTEGER NOT NULL REFERENCES release_year (release_id),
    country_id INTEGER NOT NULL REFERENCES country (country_id),
    episode INTEGER NOT NULL DEFAULT 0,
    watched_id INTEGER NOT NULL REFERENCES watched (watched_id),
    rating INTEGER,
    CHECK (episode BETWEEN 0 AND 10000),
    CHECK (rating IS NULL OR rating BETWEEN 1 AND 10)
);

CREATE INDEX IF NOT EXISTS drama_country_idx ON drama (country_id);
CREATE INDEX IF NOT EXISTS drama_release_idx ON drama (release_id);

-- 0 stands for dramas that have not aired yet.
INSERT OR IGNORE INTO release_year (release) VALUES ('0');
WITH RECURSIVE years(y) AS (SELECT 2010 UNION ALL SELECT y + 1 FROM years WHERE y < 2029)
INSERT OR IGNORE INTO release_year (release) SELECT CAST(y AS TEXT) FROM years;

INSERT OR IGNORE INTO country (country) VALUES
    ('China'), ('South Korea'), ('Philippines'), ('Thailand'), ('Japan');

INSERT OR IGNORE INTO watched (watched) VALUES
    ('Watched'), ('Plan on Watching'), ('On-Hold'), ('Dropped');

CREATE VIEW IF NOT EXISTS "All information" AS
    SELECT drama_name, release, country, episode, watched, rating
    FROM drama
    LEFT JOIN release_year ON drama.release_id = release_year.release_id
    LEFT JOIN country ON drama.country_id = country.country_id
    LEFT JOIN watched ON drama.watched_id = watched.watched_id
    ORDER BY release ASC, drama_name ASC;

CREATE VIEW IF NOT EXISTS "Rating below 5" AS
    SELECT drama_name, rating, country, episode, watched, release
    FROM drama
    LEFT JOIN release_year ON drama.release_id = release_year.release_id
    LEFT JOIN country ON drama.country_id = country.country_id
    LEFT JOIN watched ON drama.watched_id = watched.watched_id
    WHERE rating < 5
    ORDER BY rating DESC, drama_name ASC;

CREATE VIEW IF NOT EXISTS "Rating 5 and over" AS
    SELECT drama_name, rating, country, episode, watched, release
    FROM drama
    LEFT JOIN release_year ON drama.release_id = release_year.release_id
    LEFT JOIN country ON drama.country_id = country.country_id
    LEFT JOIN watched ON drama.watched_id = watched.watched_id
    WHERE rating >= 5
    ORDER BY rating DESC, drama_name ASC;

CREATE VIEW IF NOT EXISTS "Top 10 South Korean Drama" AS
    SELECT drama_name, rating, release, episode
    FROM drama
    LEFT JOIN release_year ON drama.release_id = release_year.release_id
    LEFT JOIN country ON drama.country_id = country.country_id
    WHERE country = 'South Korea'
    ORDER BY rating DESC, drama_name ASC
    LIMIT 10;

CREATE VIEW IF NOT EXISTS "Top 10 Chinese Drama" AS
    SELECT drama_name, rating, release, episode
    FROM drama
    LEFT JOIN release_year ON drama.release_id = release_year.release_id
    LEFT JOIN country ON drama.country_id = country.country_id
    WHERE country = 'China'
    ORDER BY rating DESC, drama_name ASC
    LIMIT 10;

CREATE VIEW IF NOT EXISTS "Top 10 Thailand Drama" AS
    SELECT drama_name, rating, release, episode
    FROM drama
    LEFT JOIN release_year ON drama.release_id = release_year.release_id
    LEFT JOIN country ON drama.country_id = country.country_id
    WHERE country = 'Thailand'
    ORDER BY rating DESC, drama_name ASC
    LIMIT 10;

CREATE VIEW IF NOT EXISTS "Top 10 Philippines Drama" AS
    SELECT drama_name, rating, release, episode
    FROM drama
    LEFT JOIN release_year ON drama.release_id = release_year.release_id
    LEFT JOIN country ON drama.country_id = country.country_id
    WHERE country = 'Philippines'
    ORDER BY rating DESC, drama_name ASC
    LIMIT 10;

CREATE VIEW IF NOT EXISTS "Top 10 Japanese Drama" AS
    SELECT drama_name, rating, release, episode
    FROM drama
    LEFT JOIN release_year ON drama.release_id = release_year.release_id
    LEFT JOIN country ON drama.country_id = country.country_id
    WHERE country = 'Japan'
    ORDER BY rating DESC, drama_name ASC
    LIMIT 10;
`

	// KpopSchemaV1 defines the kpop idol tracker.
	KpopSchemaV1 = `
CREATE TABLE IF NOT EXISTS ethnicitys (
    ethnicity_id INTEGER PRIMARY KEY,
    ethnicity TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS groups (
    group_id INTEGER PRIMARY KEY,
    kpop_group TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS ages (
    age_id INTEGER PRIMARY KEY,
    age INTEGER NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS idol (
    idol_id INTEGER PRIMARY KEY,
    real_name TEXT NOT NULL,
    stage_name TEXT NOT NULL,
    birthday TEXT,
    height INTEGER,
    instagram TEXT,
    ethnicity_id INTEGER REFERENCES ethnicitys (ethnicity_id),
    group_id INTEGER REFERENCES groups (group_id),
    age_id INTEGER REFERENCES ages (age_id),
    UNIQUE (stage_name, group_id)
);

CREATE INDEX IF NOT EXISTS idol_group_idx ON idol (group_id);

INSERT OR IGNORE INTO ethnicitys (ethnicity) VALUES
    ('South Korea'), ('China'), ('USA'), ('Japan'), ('Australia'), ('Canada'), ('Thailand');

INSERT OR IGNORE INTO groups (kpop_group) VALUES
    ('NCT 127'), ('NCT Dream'), ('WayV'), ('ATEEZ'), ('ENHYPEN'), ('SEVENTEEN'), ('Stray Kids');

WITH RECURSIVE years(a) AS (SELECT 19 UNION ALL SELECT a + 1 FROM years WHERE a < 29)
INSERT OR IGNORE INTO ages (age) SELECT a FROM years;

CREATE VIEW IF NOT EXISTS "All information" AS
    SELECT kpop_group, real_name, stage_name, age, birthday, ethnicity, height, instagram
    FROM idol
    LEFT JOIN ethnicitys ON idol.ethnicity_id = ethnicitys.ethnicity_id
    LEFT JOIN groups ON idol.group_id = groups.group_id
    LEFT JOIN ages ON idol.age_id = ages.age_id
    ORDER BY kpop_group ASC, stage_name ASC;

CREATE VIEW IF NOT EXISTS "Top 10 oldest" AS
    SELECT kpop_group, real_name, stage_name, age, birthday
    FROM idol
    LEFT JOIN groups ON idol.group_id = groups.group_id
    LEFT JOIN ages ON idol.age_id = ages.age_id
    ORDER BY age DESC, birthday ASC
    LIMIT 10;

CREATE VIEW IF NOT EXISTS "Top 10 tallest" AS
    SELECT kpop_group, real_name, stage_name, height
    FROM idol
    LEFT JOIN groups ON idol.group_id = groups.group_id
    ORDER BY height DESC, stage_name ASC
    LIMIT 10;

CREATE VIEW IF NOT EXISTS "Top 10 Youngest" AS
    SELECT kpop_group, real_name, stage_name, age, birthday
    FROM idol
    LEFT JOIN groups ON idol.group_id = groups.group_id
    LEFT JOIN ages ON idol.age_id = ages.age_id
    ORDER BY age ASC, birthday DESC
    LIMIT 10;

CREATE VIEW IF NOT EXISTS "All the lee in kpop" AS
    SELECT kpop_group, real_name, stage_name, age
    FROM idol
    LEFT JOIN groups ON idol.group_id = groups.group_id
    LEFT JOIN ages ON idol.age_id = ages.age_id
    WHERE real_name LIKE 'Lee %'
    ORDER BY age DESC;
`

	// ContactsSchemaV1 defines the contacts tracker.
	ContactsSchemaV1 = `
CREATE TABLE IF NOT EXISTS contacts (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE
);

CREATE VIEW IF NOT EXISTS "All contacts" AS
    SELECT name, email
    FROM contacts
    ORDER BY name ASC;
`
)

var (
	DramaComponent    = Component{Name: "dramadb", Schema: DramaSchemaV1}
	KpopComponent     = Component{Name: "kpopdb", Schema: KpopSchemaV1}
	ContactsComponent = Component{Name: "contactsdb", Schema: ContactsSchemaV1}
)
