package services

import (
	"class-timetable/database"
	"class-timetable/groups"
	"class-timetable/models"
	"strings"
)

// TimetableService handles week and lesson queries filtered by group/specialization
type TimetableService struct {
	repo TimetableRepository
}

// NewTimetableService creates a new timetable service
func NewTimetableService(repo TimetableRepository) *TimetableService {
	return &TimetableService{repo: repo}
}

// WeekQuery selects lessons of one week. A nil Group returns every lesson.
type WeekQuery struct {
	WeekID    string
	Group     *int
	Scheme    groups.Scheme
	NotesOnly bool
}

// WeekResult is a filtered view of one week
type WeekResult struct {
	Week       *models.Week
	Partitions []int
	Lessons    []models.Lesson
}

// WeekLessons resolves the requested group into partitions and returns the
// week's lessons visible to them
func (ts *TimetableService) WeekLessons(userID string, q WeekQuery) (*WeekResult, error) {
	week, err := ts.repo.GetWeek(q.WeekID)
	if err != nil {
		return nil, err
	}
	if week == nil {
		return nil, ErrWeekNotFound
	}

	if _, err := requireMember(ts.repo, week.ClassID, userID); err != nil {
		return nil, err
	}

	scheme := q.Scheme
	if scheme == "" {
		scheme = groups.SchemeGroup
	}

	filter := database.LessonFilter{Scheme: string(scheme), NotesOnly: q.NotesOnly}
	if q.Group != nil {
		filter.Partitions = groups.Resolve(*q.Group)
	}

	lessons, err := ts.repo.GetLessonsByWeek(week.ID, filter)
	if err != nil {
		return nil, err
	}

	for i := range lessons {
		lessons[i].NotesHTML = RenderNotes(lessons[i].Notes)
	}

	return &WeekResult{
		Week:       week,
		Partitions: filter.Partitions,
		Lessons:    lessons,
	}, nil
}

// NotesByWeek returns only the lessons carrying non-blank notes for the group
func (ts *TimetableService) NotesByWeek(userID, weekID string, group int, scheme groups.Scheme) (*WeekResult, error) {
	return ts.WeekLessons(userID, WeekQuery{
		WeekID:    weekID,
		Group:     &group,
		Scheme:    scheme,
		NotesOnly: true,
	})
}

// ListWeeks returns the weeks of a class the user belongs to
func (ts *TimetableService) ListWeeks(userID, classID string) ([]models.Week, error) {
	if _, err := requireMember(ts.repo, classID, userID); err != nil {
		return nil, err
	}
	return ts.repo.GetWeeksByClass(classID)
}

// UpdateNotes annotates a lesson. Blank input clears the notes.
func (ts *TimetableService) UpdateNotes(userID, lessonID, notes string) error {
	classID, err := ts.repo.GetLessonClassID(lessonID)
	if err != nil {
		return err
	}
	if classID == "" {
		return ErrLessonNotFound
	}

	if _, err := requireMember(ts.repo, classID, userID); err != nil {
		return err
	}

	if strings.TrimSpace(notes) == "" {
		notes = ""
	}
	return ts.repo.UpdateLessonNotes(lessonID, notes)
}
