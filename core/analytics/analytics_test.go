package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/core/analytics"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/storage/database/inmem"
	"github.com/trezcool/masomo/tests"
)

const epsilon = 1e-9

func seededEngine(t *testing.T) (*analytics.Engine, *school.Service) {
	svc := testutil.NewSchoolService(t)
	return analytics.NewEngine(svc), svc
}

func engineWith(t *testing.T, data inmemdb.Dataset) *analytics.Engine {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	db.Seed(data)
	return analytics.NewEngine(testutil.NewSchoolServiceWith(t, db))
}

func mark(id, studentID, subjectID string, score float64, date string) school.Mark {
	return school.Mark{ID: id, StudentID: studentID, SubjectID: subjectID, ExamType: school.ExamQuiz, Score: score, MaxScore: 100, Date: date}
}

func TestEngine_StudentPerformance(t *testing.T) {
	engine, _ := seededEngine(t)

	stats, err := engine.StudentPerformance("STU001")
	require.NoError(t, err)

	assert.InDelta(t, 85.0, stats.AverageScore, epsilon)
	assert.Equal(t, 3, stats.TotalExams)
	assert.Equal(t, []analytics.SubjectStat{
		{SubjectID: "SUB001", SubjectName: "Mathematics", Average: 85, ExamCount: 1},
		{SubjectID: "SUB002", SubjectName: "Physics", Average: 78, ExamCount: 1},
		{SubjectID: "SUB003", SubjectName: "English", Average: 92, ExamCount: 1},
	}, stats.SubjectPerformance)
	assert.Equal(t, []analytics.TrendPoint{
		{Date: "2024-04-10", Score: 92, SubjectName: "English", ExamType: school.ExamFinal},
		{Date: "2024-03-20", Score: 78, SubjectName: "Physics", ExamType: school.ExamMidterm},
		{Date: "2024-03-15", Score: 85, SubjectName: "Mathematics", ExamType: school.ExamQuiz},
	}, stats.Trend)
}

func TestEngine_StudentPerformance_noMarks(t *testing.T) {
	engine, _ := seededEngine(t)

	for _, id := range []string{"STU404", ""} {
		stats, err := engine.StudentPerformance(id)
		require.NoError(t, err)
		assert.Equal(t, 0.0, stats.AverageScore)
		assert.Empty(t, stats.SubjectPerformance)
		assert.Empty(t, stats.Trend)
		assert.Equal(t, 0, stats.TotalExams)
	}
}

func TestEngine_StudentPerformance_trend(t *testing.T) {
	engine := engineWith(t, inmemdb.Dataset{
		Students: []school.Student{{ID: "S1", Name: "One", Class: "X"}},
		Subjects: []school.Subject{{ID: "SUB1", Name: "Maths"}},
		Marks: []school.Mark{
			mark("M1", "S1", "SUB1", 10, "2024-01-10"),
			mark("M2", "S1", "SUB1", 20, "2024-03-01"),
			mark("M3", "S1", "SUB1", 30, "2024-02-01"),
			mark("M4", "S1", "SUB1", 40, "2024-03-01"),
			mark("M5", "S1", "SUB9", 50, "2024-04-01"),
			mark("M6", "S1", "SUB1", 60, "2023-12-24"),
			mark("M7", "S1", "SUB1", 70, "2024-02-15"),
		},
	})

	stats, err := engine.StudentPerformance("S1")
	require.NoError(t, err)

	assert.Equal(t, 7, stats.TotalExams)
	assert.InDelta(t, 280.0/7, stats.AverageScore, epsilon)
	require.Len(t, stats.Trend, analytics.TrendSize)

	scores := make([]float64, len(stats.Trend))
	for i, p := range stats.Trend {
		scores[i] = p.Score
	}
	// same-date marks keep their insertion order
	assert.Equal(t, []float64{50, 20, 40, 70, 30}, scores)
	// unknown subject falls back to its id
	assert.Equal(t, "SUB9", stats.Trend[0].SubjectName)
	// & is left out of the subject performance
	require.Len(t, stats.SubjectPerformance, 1)
	assert.Equal(t, 6, stats.SubjectPerformance[0].ExamCount)
	assert.InDelta(t, 230.0/6, stats.SubjectPerformance[0].Average, epsilon)
}

func TestEngine_ClassPerformance(t *testing.T) {
	engine, _ := seededEngine(t)

	stats, err := engine.ClassPerformance("Grade 10A")
	require.NoError(t, err)

	assert.InDelta(t, 579.0/7, stats.AverageScore, epsilon)
	assert.Equal(t, 3, stats.TotalStudents)
	assert.Equal(t, 7, stats.TotalExams)

	require.Len(t, stats.SubjectPerformance, 3)
	assert.InDelta(t, 248.0/3, stats.SubjectPerformance[0].Average, epsilon)
	assert.Equal(t, 3, stats.SubjectPerformance[0].ExamCount)
	assert.InDelta(t, 80.0, stats.SubjectPerformance[1].Average, epsilon)
	assert.InDelta(t, 85.5, stats.SubjectPerformance[2].Average, epsilon)

	assert.Equal(t, []analytics.Ranking{
		{StudentID: "STU001", StudentName: "John Doe", Average: 85, ExamCount: 3},
		{StudentID: "STU005", StudentName: "Robert Williams", Average: 83.5, ExamCount: 2},
		{StudentID: "STU003", StudentName: "Michael Johnson", Average: 78.5, ExamCount: 2},
	}, stats.StudentRankings)
}

func TestEngine_ClassPerformance_unknownClass(t *testing.T) {
	engine, _ := seededEngine(t)

	stats, err := engine.ClassPerformance("Grade 12")
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.AverageScore)
	assert.Empty(t, stats.SubjectPerformance)
	assert.Empty(t, stats.StudentRankings)
	assert.Equal(t, 0, stats.TotalStudents)
}

func TestEngine_ClassPerformance_stableRankings(t *testing.T) {
	engine := engineWith(t, inmemdb.Dataset{
		Students: []school.Student{
			{ID: "A", Name: "A", Class: "X"},
			{ID: "B", Name: "B", Class: "X"},
			{ID: "C", Name: "C", Class: "X"},
			{ID: "D", Name: "D", Class: "X"},
			{ID: "E", Name: "E", Class: "Y"},
		},
		Subjects: []school.Subject{{ID: "SUB1", Name: "Maths"}},
		Marks: []school.Mark{
			mark("M1", "A", "SUB1", 80, "2024-01-10"),
			mark("M2", "C", "SUB1", 70, "2024-01-10"),
			mark("M3", "B", "SUB1", 90, "2024-01-10"),
			mark("M4", "C", "SUB1", 90, "2024-01-11"),
			mark("M5", "E", "SUB1", 100, "2024-01-11"),
		},
	})

	stats, err := engine.ClassPerformance("X")
	require.NoError(t, err)

	ids := make([]string, len(stats.StudentRankings))
	for i, r := range stats.StudentRankings {
		ids[i] = r.StudentID
	}
	assert.Equal(t, []string{"B", "A", "C", "D"}, ids)
	assert.Equal(t, 0.0, stats.StudentRankings[3].Average)
	assert.Equal(t, 0, stats.StudentRankings[3].ExamCount)
	assert.InDelta(t, 82.5, stats.AverageScore, epsilon)
}

func TestEngine_MonthlyTrend(t *testing.T) {
	engine, _ := seededEngine(t)

	trend, err := engine.MonthlyTrend()
	require.NoError(t, err)
	require.Len(t, trend, 2)

	assert.Equal(t, "3/2024", trend[0].Month)
	assert.InDelta(t, 769.0/9, trend[0].Average, epsilon)
	assert.Equal(t, 9, trend[0].TotalExams)
	assert.Equal(t, "4/2024", trend[1].Month)
	assert.InDelta(t, 259.0/3, trend[1].Average, epsilon)
	assert.Equal(t, 3, trend[1].TotalExams)
}

func TestEngine_MonthlyTrend_chronological(t *testing.T) {
	engine := engineWith(t, inmemdb.Dataset{
		Marks: []school.Mark{
			mark("M1", "S", "SUB", 60, "2024-01-15"),
			mark("M2", "S", "SUB", 70, "2024-10-03"),
			mark("M3", "S", "SUB", 80, "2023-12-01"),
			mark("M4", "S", "SUB", 90, "2024-09-20"),
			mark("M5", "S", "SUB", 50, "2024-01-02"),
			mark("M6", "S", "SUB", 50, "not a date"),
		},
	})

	trend, err := engine.MonthlyTrend()
	require.NoError(t, err)

	months := make([]string, len(trend))
	for i, p := range trend {
		months[i] = p.Month
	}
	assert.Equal(t, []string{"12/2023", "1/2024", "9/2024", "10/2024"}, months)
	assert.InDelta(t, 55.0, trend[1].Average, epsilon)
	assert.Equal(t, 2, trend[1].TotalExams)
}

func TestEngine_MonthlyTrend_empty(t *testing.T) {
	engine := engineWith(t, inmemdb.Dataset{})

	trend, err := engine.MonthlyTrend()
	require.NoError(t, err)
	assert.Empty(t, trend)
}

func TestEngine_recomputesAfterAddMark(t *testing.T) {
	engine, svc := seededEngine(t)

	_, err := svc.AddMark(testutil.NewMark("STU001", "SUB004", school.ExamQuiz, 45, 50, "2024-05-01"))
	require.NoError(t, err)

	stats, err := engine.StudentPerformance("STU001")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalExams)
	assert.InDelta(t, 300.0/4, stats.AverageScore, epsilon)
	assert.Equal(t, "Chemistry", stats.Trend[0].SubjectName)

	trend, err := engine.MonthlyTrend()
	require.NoError(t, err)
	assert.Equal(t, "5/2024", trend[len(trend)-1].Month)
}

func TestRawMean(t *testing.T) {
	tests := []struct {
		name  string
		marks []school.Mark
		want  float64
	}{
		{name: "none", want: 0},
		{name: "one", marks: []school.Mark{{Score: 42, MaxScore: 50}}, want: 42},
		{name: "heterogeneous max scores", marks: []school.Mark{{Score: 10, MaxScore: 20}, {Score: 90, MaxScore: 100}}, want: 50},
		{name: "zero scores", marks: []school.Mark{{Score: 0, MaxScore: 10}, {Score: 0, MaxScore: 10}}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, analytics.RawMean(tt.marks), epsilon)
		})
	}
}
