package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/raoldfi/tennis-app-sub000/internal/model"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS leagues (
	id                  INTEGER PRIMARY KEY,
	name                TEXT NOT NULL,
	year                INTEGER NOT NULL,
	section             TEXT NOT NULL,
	region              TEXT NOT NULL,
	age_group           TEXT NOT NULL,
	division            TEXT NOT NULL,
	num_lines_per_match INTEGER NOT NULL,
	num_matches         INTEGER NOT NULL,
	allow_split_lines   BOOLEAN NOT NULL DEFAULT FALSE,
	preferred_days      TEXT NOT NULL DEFAULT '[]',
	backup_days         TEXT NOT NULL DEFAULT '[]',
	start_date          TEXT NOT NULL DEFAULT '',
	end_date            TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS facilities (
	id                INTEGER PRIMARY KEY,
	name              TEXT NOT NULL,
	short_name        TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	total_courts      INTEGER NOT NULL DEFAULT 0,
	schedule          TEXT NOT NULL DEFAULT '{}',
	unavailable_dates TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS teams (
	id               INTEGER PRIMARY KEY,
	name             TEXT NOT NULL,
	league_id        INTEGER NOT NULL REFERENCES leagues(id),
	home_facility_id INTEGER NOT NULL REFERENCES facilities(id),
	captain          TEXT NOT NULL DEFAULT '',
	preferred_days   TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS matches (
	id              INTEGER PRIMARY KEY,
	league_id       INTEGER NOT NULL REFERENCES leagues(id),
	home_team_id    INTEGER NOT NULL,
	visitor_team_id INTEGER NOT NULL,
	round           INTEGER NOT NULL DEFAULT 0,
	num_rounds      DOUBLE PRECISION NOT NULL DEFAULT 0,
	facility_id     INTEGER NOT NULL DEFAULT 0,
	date            TEXT NOT NULL DEFAULT '',
	scheduled_times TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_matches_league ON matches (league_id);
CREATE INDEX IF NOT EXISTS idx_matches_date ON matches (date);
`

// pgQuerier is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx, so every
// read and write goes through the open transaction when one exists.
type pgQuerier interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// Postgres is the SQL-backed Store. It also implements Transactional: Begin
// opens a database transaction all subsequent operations run in, and a
// dry-run Commit rolls the transaction back instead.
type Postgres struct {
	db     *sqlx.DB
	tx     *sqlx.Tx
	dryRun bool
}

// NewPostgres connects with the lib/pq driver and ensures the schema exists.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	p := &Postgres{db: db}
	if err := p.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// OpenPostgres wraps an existing connection without touching the schema.
func OpenPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// InitSchema creates the tables and indexes. Safe to call repeatedly.
func (p *Postgres) InitSchema() error {
	if _, err := p.db.Exec(pgSchema); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) q() pgQuerier {
	if p.tx != nil {
		return p.tx
	}
	return p.db
}

// Begin opens the batch transaction. A second Begin before Commit or
// Rollback is a transaction error.
func (p *Postgres) Begin(dryRun bool) error {
	if p.tx != nil {
		return fmt.Errorf("%w: transaction already open", model.ErrTransaction)
	}
	tx, err := p.db.Beginx()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", model.ErrTransaction, err)
	}
	p.tx = tx
	p.dryRun = dryRun
	return nil
}

// Commit finishes the open transaction. In dry-run mode the work is rolled
// back so committed storage is untouched.
func (p *Postgres) Commit() error {
	if p.tx == nil {
		return fmt.Errorf("%w: no open transaction", model.ErrTransaction)
	}
	tx := p.tx
	p.tx = nil
	if p.dryRun {
		if err := tx.Rollback(); err != nil {
			return fmt.Errorf("%w: dry-run rollback: %v", model.ErrTransaction, err)
		}
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", model.ErrTransaction, err)
	}
	return nil
}

// Rollback abandons the open transaction. A no-op when none is open.
func (p *Postgres) Rollback() error {
	if p.tx == nil {
		return nil
	}
	tx := p.tx
	p.tx = nil
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("%w: rollback: %v", model.ErrTransaction, err)
	}
	return nil
}

const leagueColumns = `id, name, year, section, region, age_group, division,
	num_lines_per_match, num_matches, allow_split_lines,
	preferred_days, backup_days, start_date, end_date`

func (p *Postgres) GetLeague(id int) (*model.League, error) {
	var row leagueRow
	err := p.q().Get(&row, `SELECT `+leagueColumns+` FROM leagues WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting league %d: %w", id, err)
	}
	return row.toLeague()
}

func (p *Postgres) ListLeagues() ([]*model.League, error) {
	var rows []leagueRow
	if err := p.q().Select(&rows, `SELECT `+leagueColumns+` FROM leagues ORDER BY id`); err != nil {
		return nil, fmt.Errorf("listing leagues: %w", err)
	}
	out := make([]*model.League, 0, len(rows))
	for i := range rows {
		l, err := rows[i].toLeague()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (p *Postgres) AddLeague(l *model.League) error {
	if err := l.Validate(); err != nil {
		return err
	}
	row, err := leagueToRow(l)
	if err != nil {
		return err
	}
	_, err = p.q().Exec(`INSERT INTO leagues (`+leagueColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		row.ID, row.Name, row.Year, row.Section, row.Region, row.AgeGroup, row.Division,
		row.NumLinesPerMatch, row.NumMatches, row.AllowSplitLines,
		row.PreferredDays, row.BackupDays, row.StartDate, row.EndDate)
	if err != nil {
		return fmt.Errorf("inserting league %q: %w", l.Name, err)
	}
	return nil
}

const teamColumns = `id, name, league_id, home_facility_id, captain, preferred_days`

func (p *Postgres) GetTeam(id int) (*model.Team, error) {
	var row teamRow
	err := p.q().Get(&row, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting team %d: %w", id, err)
	}
	return row.toTeam()
}

func (p *Postgres) ListTeams(leagueID int) ([]*model.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams`
	var args []interface{}
	if leagueID != 0 {
		query += ` WHERE league_id = $1`
		args = append(args, leagueID)
	}
	query += ` ORDER BY id`

	var rows []teamRow
	if err := p.q().Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	out := make([]*model.Team, 0, len(rows))
	for i := range rows {
		t, err := rows[i].toTeam()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (p *Postgres) AddTeam(t *model.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}
	row, err := teamToRow(t)
	if err != nil {
		return err
	}
	_, err = p.q().Exec(`INSERT INTO teams (`+teamColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		row.ID, row.Name, row.LeagueID, row.HomeFacilityID, row.Captain, row.PreferredDays)
	if err != nil {
		return fmt.Errorf("inserting team %q: %w", t.Name, err)
	}
	return nil
}

const facilityColumns = `id, name, short_name, location, total_courts, schedule, unavailable_dates`

func (p *Postgres) GetFacility(id int) (*model.Facility, error) {
	var row facilityRow
	err := p.q().Get(&row, `SELECT `+facilityColumns+` FROM facilities WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting facility %d: %w", id, err)
	}
	return row.toFacility()
}

func (p *Postgres) ListFacilities() ([]*model.Facility, error) {
	var rows []facilityRow
	if err := p.q().Select(&rows, `SELECT `+facilityColumns+` FROM facilities ORDER BY id`); err != nil {
		return nil, fmt.Errorf("listing facilities: %w", err)
	}
	out := make([]*model.Facility, 0, len(rows))
	for i := range rows {
		f, err := rows[i].toFacility()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (p *Postgres) AddFacility(f *model.Facility) error {
	if f.ShortName == "" {
		f.ShortName = model.ShortenName(f.Name)
	}
	if err := f.Validate(); err != nil {
		return err
	}
	row, err := facilityToRow(f)
	if err != nil {
		return err
	}
	_, err = p.q().Exec(`INSERT INTO facilities (`+facilityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		row.ID, row.Name, row.ShortName, row.Location, row.TotalCourts,
		row.Schedule, row.UnavailableDates)
	if err != nil {
		return fmt.Errorf("inserting facility %q: %w", f.Name, err)
	}
	return nil
}

const matchColumns = `id, league_id, home_team_id, visitor_team_id, round,
	num_rounds, facility_id, date, scheduled_times`

func (p *Postgres) ListMatches(f MatchFilter) ([]*model.Match, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + matchColumns + ` FROM matches`)
	var args []interface{}
	var conditions []string

	if f.LeagueID != 0 {
		args = append(args, f.LeagueID)
		conditions = append(conditions, fmt.Sprintf("league_id = $%d", len(args)))
	}
	if f.TeamID != 0 {
		args = append(args, f.TeamID)
		conditions = append(conditions,
			fmt.Sprintf("(home_team_id = $%d OR visitor_team_id = $%d)", len(args), len(args)))
	}
	if f.FacilityID != 0 {
		args = append(args, f.FacilityID)
		conditions = append(conditions, fmt.Sprintf("facility_id = $%d", len(args)))
	}
	// Scheduled means the full assignment is present, mirroring
	// model.IsScheduled so both stores classify partial rows the same way.
	switch f.Type {
	case MatchScheduled:
		conditions = append(conditions,
			"(date <> '' AND facility_id <> 0 AND scheduled_times <> '[]')")
	case MatchUnscheduled:
		conditions = append(conditions,
			"(date = '' OR facility_id = 0 OR scheduled_times = '[]')")
	}
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	b.WriteString(" ORDER BY id")

	var rows []matchRow
	if err := p.q().Select(&rows, b.String(), args...); err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	out := make([]*model.Match, 0, len(rows))
	for i := range rows {
		m, err := rows[i].toMatch()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (p *Postgres) AddMatch(m *model.Match) error {
	row, err := matchToRow(m)
	if err != nil {
		return err
	}
	_, err = p.q().Exec(`INSERT INTO matches (`+matchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		row.ID, row.LeagueID, row.HomeTeamID, row.VisitorTeamID,
		row.Round, row.NumRounds, row.FacilityID, row.Date, row.ScheduledTimes)
	if err != nil {
		return fmt.Errorf("inserting match %d: %w", m.ID(), err)
	}
	return nil
}

// UpdateMatch persists the match's scheduling state. Identity columns are
// never rewritten.
func (p *Postgres) UpdateMatch(m *model.Match) error {
	row, err := matchToRow(m)
	if err != nil {
		return err
	}
	res, err := p.q().Exec(`UPDATE matches
		SET facility_id = $2, date = $3, scheduled_times = $4
		WHERE id = $1`,
		row.ID, row.FacilityID, row.Date, row.ScheduledTimes)
	if err != nil {
		return fmt.Errorf("updating match %d: %w", m.ID(), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating match %d: %w", m.ID(), err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: match %d not found", model.ErrIntegrity, m.ID())
	}
	return nil
}
