package services

import (
	"class-timetable/database"
	"class-timetable/groups"
	"class-timetable/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimetableService_WeekLessons(t *testing.T) {
	week := &models.Week{ID: "w1", ClassID: "c1", Label: "W1"}

	t.Run("Group resolves to partitions", func(t *testing.T) {
		repo := new(MockRepository)
		ts := NewTimetableService(repo)
		group := 2

		repo.On("GetWeek", "w1").Return(week, nil)
		repo.On("GetMembership", "c1", "u1").Return(member("c1", "u1"), nil)
		repo.On("GetLessonsByWeek", "w1", database.LessonFilter{
			Scheme:     "group",
			Partitions: []int{1, 2},
		}).Return([]models.Lesson{{ID: "l1", Notes: "**bold**"}, {ID: "l2"}}, nil)

		result, err := ts.WeekLessons("u1", WeekQuery{WeekID: "w1", Group: &group})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, result.Partitions)
		assert.Contains(t, result.Lessons[0].NotesHTML, "<strong>bold</strong>")
		assert.Empty(t, result.Lessons[1].NotesHTML)
		repo.AssertExpectations(t)
	})

	t.Run("No group returns everything", func(t *testing.T) {
		repo := new(MockRepository)
		ts := NewTimetableService(repo)

		repo.On("GetWeek", "w1").Return(week, nil)
		repo.On("GetMembership", "c1", "u1").Return(member("c1", "u1"), nil)
		repo.On("GetLessonsByWeek", "w1", database.LessonFilter{Scheme: "specialization"}).Return([]models.Lesson{}, nil)

		result, err := ts.WeekLessons("u1", WeekQuery{WeekID: "w1", Scheme: groups.SchemeSpecialization})
		require.NoError(t, err)
		assert.Nil(t, result.Partitions)
		repo.AssertExpectations(t)
	})

	t.Run("Unknown week", func(t *testing.T) {
		repo := new(MockRepository)
		ts := NewTimetableService(repo)
		repo.On("GetWeek", "nope").Return(nil, nil)

		_, err := ts.WeekLessons("u1", WeekQuery{WeekID: "nope"})
		assert.ErrorIs(t, err, ErrWeekNotFound)
	})

	t.Run("Outsider is forbidden", func(t *testing.T) {
		repo := new(MockRepository)
		ts := NewTimetableService(repo)
		repo.On("GetWeek", "w1").Return(week, nil)
		repo.On("GetMembership", "c1", "u9").Return(nil, nil)

		_, err := ts.NotesByWeek("u9", "w1", 1, groups.SchemeGroup)
		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "GetLessonsByWeek")
	})
}

func TestTimetableService_NotesByWeek(t *testing.T) {
	repo := new(MockRepository)
	ts := NewTimetableService(repo)

	repo.On("GetWeek", "w1").Return(&models.Week{ID: "w1", ClassID: "c1"}, nil)
	repo.On("GetMembership", "c1", "u1").Return(member("c1", "u1"), nil)
	repo.On("GetLessonsByWeek", "w1", database.LessonFilter{
		Scheme:     "group",
		Partitions: []int{1, 3},
		NotesOnly:  true,
	}).Return([]models.Lesson{}, nil)

	result, err := ts.NotesByWeek("u1", "w1", 3, groups.SchemeGroup)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, result.Partitions)
	repo.AssertExpectations(t)
}

func TestTimetableService_UpdateNotes(t *testing.T) {
	t.Run("Blank notes are cleared", func(t *testing.T) {
		repo := new(MockRepository)
		ts := NewTimetableService(repo)

		repo.On("GetLessonClassID", "l1").Return("c1", nil)
		repo.On("GetMembership", "c1", "u1").Return(member("c1", "u1"), nil)
		repo.On("UpdateLessonNotes", "l1", "").Return(nil)

		require.NoError(t, ts.UpdateNotes("u1", "l1", "  \n "))
		repo.AssertExpectations(t)
	})

	t.Run("Unknown lesson", func(t *testing.T) {
		repo := new(MockRepository)
		ts := NewTimetableService(repo)
		repo.On("GetLessonClassID", "nope").Return("", nil)

		assert.ErrorIs(t, ts.UpdateNotes("u1", "nope", "x"), ErrLessonNotFound)
	})
}

func TestTimetableService_ListWeeks(t *testing.T) {
	repo := new(MockRepository)
	ts := NewTimetableService(repo)

	repo.On("GetMembership", "c1", "u9").Return(nil, nil)
	_, err := ts.ListWeeks("u9", "c1")
	assert.ErrorIs(t, err, ErrForbidden)
}
