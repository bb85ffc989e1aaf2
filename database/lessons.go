package database

import (
	"class-timetable/models"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Partition schemes stored in lesson_partitions.scheme
const (
	SchemeGroup          = "group"
	SchemeSpecialization = "specialization"
)

const lessonColumns = `
	l.id, l.week_id, l.day, l.period,
	COALESCE(l.starts_at, ''), COALESCE(l.ends_at, ''),
	l.subject, COALESCE(l.teacher, ''), COALESCE(l.room, ''), COALESCE(l.notes, ''),
	l.created_at, l.updated_at`

// ==================== WEEK OPERATIONS ====================

// GetWeek retrieves a week by ID
func (r *Repository) GetWeek(weekID string) (*models.Week, error) {
	var week models.Week
	err := r.db.QueryRow(`
		SELECT id, class_id, label, starts_on, created_at
		FROM weeks
		WHERE id = ?
	`, weekID).Scan(&week.ID, &week.ClassID, &week.Label, &week.StartsOn, &week.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &week, nil
}

// GetWeeksByClass lists a class's weeks, most recent first
func (r *Repository) GetWeeksByClass(classID string) ([]models.Week, error) {
	rows, err := r.db.Query(`
		SELECT id, class_id, label, starts_on, created_at
		FROM weeks
		WHERE class_id = ?
		ORDER BY starts_on DESC, created_at DESC
	`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weeks := make([]models.Week, 0)
	for rows.Next() {
		var week models.Week
		if err := rows.Scan(&week.ID, &week.ClassID, &week.Label, &week.StartsOn, &week.CreatedAt); err != nil {
			return nil, err
		}
		weeks = append(weeks, week)
	}

	return weeks, rows.Err()
}

// CreateWeekWithLessons stores an imported week together with its lessons and
// partition tags in a single transaction
func (r *Repository) CreateWeekWithLessons(week *models.Week, lessons []models.Lesson) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertWeekWithLessons(tx, week, lessons); err != nil {
		return err
	}

	return tx.Commit()
}

func insertWeekWithLessons(tx *sql.Tx, week *models.Week, lessons []models.Lesson) error {
	if _, err := tx.Exec(`
		INSERT INTO weeks (id, class_id, label, starts_on, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, week.ID, week.ClassID, week.Label, week.StartsOn, week.CreatedAt); err != nil {
		return fmt.Errorf("insert week: %w", err)
	}

	for _, l := range lessons {
		if _, err := tx.Exec(`
			INSERT INTO lessons (id, week_id, day, period, starts_at, ends_at, subject, teacher, room, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, l.ID, week.ID, l.Day, l.Period, l.StartsAt, l.EndsAt, l.Subject, l.Teacher, l.Room, l.Notes,
			l.CreatedAt, l.UpdatedAt); err != nil {
			return fmt.Errorf("insert lesson: %w", err)
		}

		if err := insertPartitions(tx, l.ID, SchemeGroup, l.Groups); err != nil {
			return err
		}
		if err := insertPartitions(tx, l.ID, SchemeSpecialization, l.Specializations); err != nil {
			return err
		}
	}

	return nil
}

func insertPartitions(tx *sql.Tx, lessonID, scheme string, partitions []int) error {
	for _, p := range partitions {
		if _, err := tx.Exec(`
			INSERT INTO lesson_partitions (lesson_id, scheme, partition_id)
			VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING
		`, lessonID, scheme, p); err != nil {
			return fmt.Errorf("insert %s partition: %w", scheme, err)
		}
	}
	return nil
}

// ==================== LESSON OPERATIONS ====================

// LessonFilter narrows a week's lessons. A nil Partitions slice disables the
// partition filter; NotesOnly keeps rows with non-blank notes.
type LessonFilter struct {
	Scheme     string
	Partitions []int
	NotesOnly  bool
}

// GetLessonsByWeek returns the week's lessons visible under the filter, ordered by
// day and period, with their partition tags loaded
func (r *Repository) GetLessonsByWeek(weekID string, filter LessonFilter) ([]models.Lesson, error) {
	query := `SELECT DISTINCT ` + lessonColumns + ` FROM lessons l`
	args := []interface{}{}

	if filter.Partitions != nil {
		if len(filter.Partitions) == 0 {
			return []models.Lesson{}, nil
		}
		scheme := filter.Scheme
		if scheme == "" {
			scheme = SchemeGroup
		}
		query += ` JOIN lesson_partitions p ON p.lesson_id = l.id
			WHERE l.week_id = ? AND p.scheme = ? AND p.partition_id IN (?)`
		args = append(args, weekID, scheme, filter.Partitions)
	} else {
		query += ` WHERE l.week_id = ?`
		args = append(args, weekID)
	}

	if filter.NotesOnly {
		query += ` AND l.notes IS NOT NULL AND TRIM(l.notes, ' ' || char(9) || char(10) || char(13)) <> ''`
	}
	query += ` ORDER BY l.day ASC, l.period ASC`

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("expand partition filter: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := make([]models.Lesson, 0)
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(
			&l.ID, &l.WeekID, &l.Day, &l.Period, &l.StartsAt, &l.EndsAt,
			&l.Subject, &l.Teacher, &l.Room, &l.Notes,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadPartitions(lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// loadPartitions fills Groups and Specializations for the given lessons
func (r *Repository) loadPartitions(lessons []models.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}

	ids := make([]string, len(lessons))
	index := make(map[string]int, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
		index[l.ID] = i
		lessons[i].Groups = []int{}
		lessons[i].Specializations = []int{}
	}

	query, args, err := sqlx.In(`
		SELECT lesson_id, scheme, partition_id
		FROM lesson_partitions
		WHERE lesson_id IN (?)
		ORDER BY partition_id ASC
	`, ids)
	if err != nil {
		return err
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var lessonID, scheme string
		var partition int
		if err := rows.Scan(&lessonID, &scheme, &partition); err != nil {
			return err
		}
		i, ok := index[lessonID]
		if !ok {
			continue
		}
		switch scheme {
		case SchemeGroup:
			lessons[i].Groups = append(lessons[i].Groups, partition)
		case SchemeSpecialization:
			lessons[i].Specializations = append(lessons[i].Specializations, partition)
		}
	}

	return rows.Err()
}

// GetLessonClassID returns the class a lesson belongs to, or "" if the lesson is unknown
func (r *Repository) GetLessonClassID(lessonID string) (string, error) {
	var classID string
	err := r.db.QueryRow(`
		SELECT w.class_id
		FROM lessons l
		JOIN weeks w ON w.id = l.week_id
		WHERE l.id = ?
	`, lessonID).Scan(&classID)

	if err == sql.ErrNoRows {
		return "", nil
	}
	return classID, err
}

// UpdateLessonNotes replaces a lesson's free-text notes
func (r *Repository) UpdateLessonNotes(lessonID, notes string) error {
	_, err := r.db.Exec(`
		UPDATE lessons SET
			notes = ?,
			updated_at = ?
		WHERE id = ?
	`, notes, time.Now(), lessonID)
	return err
}
