package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tnorth/worktime/internal/sqlutil"
	"github.com/tnorth/worktime/internal/timeexpr"
)

// Record is a work interval attributed to exactly one project.
// A nil End means the record is still running.
type Record struct {
	ID          int64
	ProjectID   int64
	ProjectPath string
	Start       time.Time
	End         *time.Time
	Note        string
}

// Open reports whether the record is still running.
func (r Record) Open() bool {
	return r.End == nil
}

// Duration returns the record length, counting open records up to now.
func (r Record) Duration(now time.Time) time.Duration {
	end := now
	if r.End != nil {
		end = *r.End
	}
	if end.Before(r.Start) {
		return 0
	}
	return end.Sub(r.Start)
}

// Clipped returns the portion of the record inside the period, counting
// open records up to now (capped at the period end).
func (r Record) Clipped(p timeexpr.Period, now time.Time) time.Duration {
	start := r.Start
	if start.Before(p.From) {
		start = p.From
	}
	end := now
	if r.End != nil {
		end = *r.End
	}
	if end.After(p.To) {
		end = p.To
	}
	if !start.Before(end) {
		return 0
	}
	return end.Sub(start)
}

const recordColumns = `r.id, r.project_id, r.start, r.end, r.note`

func scanRecord(rows *sql.Rows) (Record, error) {
	var r Record
	var start int64
	var end sql.NullInt64
	if err := rows.Scan(&r.ID, &r.ProjectID, &start, &end, &r.Note); err != nil {
		return Record{}, err
	}
	r.Start = time.Unix(start, 0)
	if end.Valid {
		t := time.Unix(end.Int64, 0)
		r.End = &t
	}
	return r, nil
}

func (s *Store) queryRecords(query string, args ...any) ([]Record, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	records, err := sqlutil.ScanRows(rows, scanRecord)
	if err != nil {
		return nil, err
	}
	return s.attachPaths(records)
}

func (s *Store) attachPaths(records []Record) ([]Record, error) {
	if len(records) == 0 {
		return records, nil
	}
	t, err := s.Tree()
	if err != nil {
		return nil, err
	}
	paths := t.Paths()
	for i := range records {
		records[i].ProjectPath = paths[records[i].ProjectID]
	}
	return records, nil
}

// StartRecord inserts a record for a project. A nil end leaves it running.
func (s *Store) StartRecord(projectID int64, start time.Time, end *time.Time, note string) (*Record, error) {
	var endUnix any
	if end != nil {
		endUnix = end.Unix()
	}
	res, err := s.db.Exec(`INSERT INTO records (project_id, start, end, note) VALUES (?, ?, ?, ?)`,
		projectID, start.Unix(), endUnix, note)
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	rec := &Record{ID: id, ProjectID: projectID, Start: start, End: end, Note: note}
	if p, err := s.ProjectByID(projectID); err == nil {
		rec.ProjectPath = p.Path
	}
	return rec, nil
}

// RecordByID returns a single record.
func (s *Store) RecordByID(id int64) (*Record, error) {
	records, err := s.queryRecords(
		`SELECT `+recordColumns+` FROM records r WHERE r.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: id %d", ErrRecordNotFound, id)
	}
	return &records[0], nil
}

// OpenRecords returns all records that are still running, oldest first.
func (s *Store) OpenRecords() ([]Record, error) {
	return s.queryRecords(
		`SELECT ` + recordColumns + ` FROM records r WHERE r.end IS NULL ORDER BY r.start`)
}

// CloseOpenRecords sets the end of every open record to at. Returns the
// number of records closed.
func (s *Store) CloseOpenRecords(at time.Time) (int64, error) {
	res, err := s.db.Exec(`UPDATE records SET end = ? WHERE end IS NULL`, at.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to close open records: %w", err)
	}
	return res.RowsAffected()
}

// OverlappingRecords returns records whose interval contains the instant:
// closed records with start < t < end, and open records with start < t.
func (s *Store) OverlappingRecords(at time.Time) ([]Record, error) {
	unix := at.Unix()
	return s.queryRecords(
		`SELECT `+recordColumns+` FROM records r
		 WHERE (r.start < ? AND r.end > ?) OR (r.end IS NULL AND r.start < ?)
		 ORDER BY r.start DESC`,
		unix, unix, unix)
}

// ClipRecordsEnd sets the end of the given records to at. Used by forced
// inserts to close out records that overlap the new start.
func (s *Store) ClipRecordsEnd(ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders, args := sqlutil.InClauseArgs(idStrings(ids))
	args = append([]any{at.Unix()}, args...)
	_, err := s.db.Exec(
		fmt.Sprintf(`UPDATE records SET end = ? WHERE id IN (%s)`, placeholders), args...)
	if err != nil {
		return fmt.Errorf("failed to clip records: %w", err)
	}
	return nil
}

// RecordsInPeriod returns records whose interval overlaps the period,
// ordered by start. Open records overlap every period that extends past
// their start.
func (s *Store) RecordsInPeriod(p timeexpr.Period) ([]Record, error) {
	return s.queryRecords(
		`SELECT `+recordColumns+` FROM records r
		 WHERE r.start < ? AND (r.end IS NULL OR r.end > ?)
		 ORDER BY r.start`,
		p.To.Unix(), p.From.Unix())
}

// LastRecords returns the most recent n records, newest first.
func (s *Store) LastRecords(n int) ([]Record, error) {
	return s.queryRecords(
		`SELECT `+recordColumns+` FROM records r ORDER BY r.start DESC LIMIT ?`, n)
}

// RecordUpdate holds the fields of a partial record update. Nil fields are
// left unchanged.
type RecordUpdate struct {
	ProjectID *int64
	Start     *time.Time
	End       *time.Time
	Note      *string
}

// UpdateRecord applies a partial update to a record.
func (s *Store) UpdateRecord(id int64, upd RecordUpdate) error {
	var sets []string
	var args []any
	if upd.ProjectID != nil {
		sets = append(sets, "project_id = ?")
		args = append(args, *upd.ProjectID)
	}
	if upd.Start != nil {
		sets = append(sets, "start = ?")
		args = append(args, upd.Start.Unix())
	}
	if upd.End != nil {
		sets = append(sets, "end = ?")
		args = append(args, upd.End.Unix())
	}
	if upd.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *upd.Note)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := s.db.Exec(`UPDATE records SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrRecordNotFound, id)
	}
	return nil
}

// DeleteRecords removes records by id. Returns how many rows were deleted.
func (s *Store) DeleteRecords(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders, args := sqlutil.InClauseArgs(idStrings(ids))
	res, err := s.db.Exec(
		fmt.Sprintf(`DELETE FROM records WHERE id IN (%s)`, placeholders), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records: %w", err)
	}
	return res.RowsAffected()
}

// PeriodTotals sums record time per project over the period. Record
// intervals are clipped to the period; open records count up to now.
func (s *Store) PeriodTotals(p timeexpr.Period, now time.Time) (map[int64]time.Duration, error) {
	records, err := s.RecordsInPeriod(p)
	if err != nil {
		return nil, err
	}
	totals := make(map[int64]time.Duration)
	for _, r := range records {
		if d := r.Clipped(p, now); d > 0 {
			totals[r.ProjectID] += d
		}
	}
	return totals, nil
}
