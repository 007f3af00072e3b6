// Package store persists the pipeline's collections in SQLite: pending
// records, published events, their append-only version log, votes, the
// audit trail, and system logs. SQLite is treated as a generic
// transactional document store; nothing outside this package speaks SQL.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claimsift/claimsift/internal/logging"
	"github.com/claimsift/claimsift/internal/model"
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Single writer; SQLite serializes writes anyway and this avoids
	// SQLITE_BUSY under concurrent recomputes.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logging.Debug("store ready", "path", path)
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pending_events (
		id TEXT PRIMARY KEY,
		dedupe_key TEXT UNIQUE NOT NULL,
		date TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		sources TEXT NOT NULL,
		disputed_claims TEXT NOT NULL,
		author TEXT NOT NULL,
		status TEXT NOT NULL,
		submitted_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pending_status ON pending_events(status);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		sources TEXT NOT NULL,
		disputed_claims TEXT NOT NULL,
		status TEXT NOT NULL,
		ai_score REAL NOT NULL,
		community_score REAL NOT NULL,
		final_score REAL NOT NULL,
		author TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);
	CREATE INDEX IF NOT EXISTS idx_events_final_score ON events(final_score);

	CREATE TABLE IF NOT EXISTS event_versions (
		ordinal INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		sources TEXT NOT NULL,
		disputed_claims TEXT NOT NULL,
		status TEXT NOT NULL,
		author TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_versions_event ON event_versions(event_id);

	CREATE TABLE IF NOT EXISTS votes (
		event_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		value INTEGER NOT NULL,
		role TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (event_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		subject_id TEXT NOT NULL,
		status TEXT,
		reason TEXT,
		actor TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_subject ON audit_logs(subject_id);

	CREATE TABLE IF NOT EXISTS system_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		message TEXT NOT NULL,
		details TEXT,
		created_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func marshalJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalSources(raw string) []string {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func unmarshalDisputed(raw string) []model.DisputedClaim {
	var out []model.DisputedClaim
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// InsertPendingIfAbsent inserts a pending record unless another record
// with the same dedupe key already exists. The insert and the existence
// check are a single statement, so two concurrent submissions of the
// same story cannot both land. Returns true when the record was stored.
func (s *Store) InsertPendingIfAbsent(rec model.PendingRecord, dedupeKey string) (bool, error) {
	res, err := s.db.Exec(`
		INSERT INTO pending_events (id, dedupe_key, date, title, description, sources, disputed_claims, author, status, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(dedupe_key) DO NOTHING
	`, rec.ID, dedupeKey, rec.Date, rec.Title, rec.Description,
		marshalJSON(rec.Sources), marshalJSON(rec.DisputedClaims),
		rec.Author, string(rec.Status), rec.SubmittedAt)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// PendingByStatus returns pending records in submission order.
func (s *Store) PendingByStatus(status model.Status) ([]model.PendingRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, date, title, description, sources, disputed_claims, author, status, submitted_at
		FROM pending_events
		WHERE status = ?
		ORDER BY submitted_at
	`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.PendingRecord
	for rows.Next() {
		rec, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetPending returns one pending record, or nil when absent.
func (s *Store) GetPending(id string) (*model.PendingRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, date, title, description, sources, disputed_claims, author, status, submitted_at
		FROM pending_events
		WHERE id = ?
	`, id)
	rec, err := scanPending(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPending(row rowScanner) (model.PendingRecord, error) {
	var rec model.PendingRecord
	var sources, disputed, status string
	err := row.Scan(&rec.ID, &rec.Date, &rec.Title, &rec.Description,
		&sources, &disputed, &rec.Author, &status, &rec.SubmittedAt)
	if err != nil {
		return rec, err
	}
	rec.Sources = unmarshalSources(sources)
	rec.DisputedClaims = unmarshalDisputed(disputed)
	rec.Status = model.Status(status)
	return rec, nil
}

// SetPendingStatus records the gate's single status transition.
func (s *Store) SetPendingStatus(id string, status model.Status) error {
	_, err := s.db.Exec("UPDATE pending_events SET status = ? WHERE id = ?", string(status), id)
	return err
}

// CreateEvent publishes a new event together with its first version, in
// one transaction.
func (s *Store) CreateEvent(ev model.Event, ver model.Version) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO events (id, title, description, sources, disputed_claims, status, ai_score, community_score, final_score, author, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.Title, ev.Description,
		marshalJSON(model.UniqueSources(ev.Sources)), marshalJSON(ev.DisputedClaims),
		string(ev.Status), ev.AIScore, ev.CommunityScore, ev.FinalScore,
		ev.Author, ev.CreatedAt, ev.UpdatedAt)
	if err != nil {
		return err
	}
	if err := insertVersion(tx, ev.ID, ver); err != nil {
		return err
	}
	return tx.Commit()
}

// ReviseEvent appends a version to an existing event, updates its
// content fields, and refreshes the publication-time automated score.
// The final score is re-derived in the same statement so the blend
// invariant holds at every observable state.
func (s *Store) ReviseEvent(eventID string, ver model.Version, aiScore float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE events
		SET title = ?, description = ?, sources = ?, disputed_claims = ?, status = ?,
			ai_score = ?,
			final_score = MAX(0.0, MIN(1.0, 0.7 * ? + 0.3 * community_score)),
			updated_at = ?
		WHERE id = ?
	`, ver.Title, ver.Description,
		marshalJSON(model.UniqueSources(ver.Sources)), marshalJSON(ver.Disputed),
		string(ver.Status), aiScore, aiScore, ver.CreatedAt, eventID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("event %s not found", eventID)
	}
	if err := insertVersion(tx, eventID, ver); err != nil {
		return err
	}
	return tx.Commit()
}

func insertVersion(tx *sql.Tx, eventID string, ver model.Version) error {
	_, err := tx.Exec(`
		INSERT INTO event_versions (event_id, title, description, sources, disputed_claims, status, author, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, eventID, ver.Title, ver.Description,
		marshalJSON(ver.Sources), marshalJSON(ver.Disputed),
		string(ver.Status), ver.Author, ver.CreatedAt)
	return err
}

// GetEvent returns one event, or nil when absent.
func (s *Store) GetEvent(id string) (*model.Event, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, sources, disputed_claims, status, ai_score, community_score, final_score, author, created_at, updated_at
		FROM events
		WHERE id = ?
	`, id)
	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// ListEvents returns every published event, newest first.
func (s *Store) ListEvents() ([]model.Event, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, sources, disputed_claims, status, ai_score, community_score, final_score, author, created_at, updated_at
		FROM events
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func scanEvent(row rowScanner) (model.Event, error) {
	var ev model.Event
	var sources, disputed, status string
	err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &sources, &disputed, &status,
		&ev.AIScore, &ev.CommunityScore, &ev.FinalScore, &ev.Author, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return ev, err
	}
	ev.Sources = unmarshalSources(sources)
	ev.DisputedClaims = unmarshalDisputed(disputed)
	ev.Status = model.Status(status)
	return ev, nil
}

// communityScoreExpr derives the role-weighted community score from the
// current vote set: (up - down) / (up + down), zero when no votes.
// Weights mirror model.Role.Weight.
const communityScoreExpr = `
	SELECT COALESCE(
		CAST(SUM(CASE WHEN value > 0 THEN weight ELSE -weight END) AS REAL)
			/ NULLIF(SUM(weight), 0),
		0)
	FROM (
		SELECT value,
			CASE WHEN role IN ('admin', 'journalist') THEN 2 ELSE 1 END AS weight
		FROM votes
		WHERE event_id = ? AND value <> 0
	)`

// RecomputeEventScores re-derives the community and final scores from
// the vote rows in one statement. Reading the votes and writing the
// scores atomically means concurrent voters, even in separate
// processes, cannot interleave a stale read-compute-write cycle.
// Returns false when the event no longer exists.
func (s *Store) RecomputeEventScores(id string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE events
		SET community_score = (`+communityScoreExpr+`),
			final_score = MAX(0.0, MIN(1.0, 0.7 * ai_score + 0.3 * (`+communityScoreExpr+`)))
		WHERE id = ?
	`, id, id, id)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// DeleteEvent removes an event and its votes. Versions and audit rows
// stay: they are the record that the event existed.
func (s *Store) DeleteEvent(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM votes WHERE event_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM events WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// EventVersions returns the append-only revision log in insertion order.
func (s *Store) EventVersions(eventID string) ([]model.Version, error) {
	rows, err := s.db.Query(`
		SELECT ordinal, title, description, sources, disputed_claims, status, author, created_at
		FROM event_versions
		WHERE event_id = ?
		ORDER BY ordinal
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []model.Version
	for rows.Next() {
		var ver model.Version
		var sources, disputed, status string
		if err := rows.Scan(&ver.Ordinal, &ver.Title, &ver.Description, &sources, &disputed, &status, &ver.Author, &ver.CreatedAt); err != nil {
			return nil, err
		}
		ver.Sources = unmarshalSources(sources)
		ver.Disputed = unmarshalDisputed(disputed)
		ver.Status = model.Status(status)
		versions = append(versions, ver)
	}
	return versions, rows.Err()
}

// SetVote records a user's vote on an event, replacing any previous one.
func (s *Store) SetVote(v model.Vote) error {
	_, err := s.db.Exec(`
		INSERT INTO votes (event_id, user_id, value, role, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(event_id, user_id) DO UPDATE SET
			value = excluded.value,
			role = excluded.role,
			updated_at = excluded.updated_at
	`, v.EventID, v.UserID, v.Value, string(v.Role), v.UpdatedAt)
	return err
}

// RemoveVote deletes a user's vote on an event.
func (s *Store) RemoveVote(eventID, userID string) error {
	_, err := s.db.Exec("DELETE FROM votes WHERE event_id = ? AND user_id = ?", eventID, userID)
	return err
}

// VotesForEvent returns every vote currently attached to an event.
func (s *Store) VotesForEvent(eventID string) ([]model.Vote, error) {
	rows, err := s.db.Query(`
		SELECT event_id, user_id, value, role, updated_at
		FROM votes
		WHERE event_id = ?
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []model.Vote
	for rows.Next() {
		var v model.Vote
		var role string
		if err := rows.Scan(&v.EventID, &v.UserID, &v.Value, &role, &v.UpdatedAt); err != nil {
			return nil, err
		}
		v.Role = model.Role(role)
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// AppendAudit writes one immutable audit entry.
func (s *Store) AppendAudit(entry model.AuditLogEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO audit_logs (type, subject_id, status, reason, actor, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.Type, entry.SubjectID, string(entry.Status), entry.Reason, entry.Actor, entry.CreatedAt)
	return err
}

// AuditForSubject returns the audit trail for a subject in write order.
func (s *Store) AuditForSubject(subjectID string) ([]model.AuditLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, type, subject_id, status, reason, actor, created_at
		FROM audit_logs
		WHERE subject_id = ?
		ORDER BY id
	`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AuditLogEntry
	for rows.Next() {
		var e model.AuditLogEntry
		var status string
		if err := rows.Scan(&e.ID, &e.Type, &e.SubjectID, &status, &e.Reason, &e.Actor, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Status = model.Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AppendSystemLog writes one system log entry (retention deletions).
func (s *Store) AppendSystemLog(kind, message string, details map[string]interface{}) error {
	_, err := s.db.Exec(`
		INSERT INTO system_logs (kind, message, details, created_at)
		VALUES (?, ?, ?, ?)
	`, kind, message, marshalJSON(details), time.Now().UTC())
	return err
}
