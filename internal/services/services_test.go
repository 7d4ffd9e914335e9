package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/isdelr/gymlog/internal/auth"
	"github.com/isdelr/gymlog/internal/database"
	"github.com/isdelr/gymlog/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type fixture struct {
	db         *database.DB
	now        time.Time
	auth       *AuthService
	workouts   *WorkoutService
	attendance *AttendanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.New("sqlite", filepath.Join(t.TempDir(), "gym.db"))
	assert.NilError(t, err)
	t.Cleanup(func() { db.Close() })
	assert.NilError(t, database.Migrate(context.Background(), db))

	f := &fixture{db: db, now: time.Date(2026, time.October, 14, 8, 30, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }
	f.attendance = NewAttendanceService(db, clock)
	f.auth = NewAuthService(db, f.attendance, bcrypt.MinCost, clock)
	f.workouts = NewWorkoutService(db)
	return f
}

func (f *fixture) register(t *testing.T, username string) models.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), username, "pa55word")
	assert.NilError(t, err)
	return user
}

func (f *fixture) count(t *testing.T, query string, args ...interface{}) int {
	t.Helper()
	var n int
	assert.NilError(t, f.db.QueryRowContext(context.Background(), query, args...).Scan(&n))
	return n
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.register(t, "alice")
	assert.Assert(t, user.ID > 0)
	assert.Equal(t, user.PasswordHash, "")

	_, err := f.auth.Register(ctx, "alice", "different")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.Equal(t, f.count(t, "SELECT COUNT(*) FROM users WHERE username = ?", "alice"), 1)
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	var stored string
	assert.NilError(t, f.db.QueryRow("SELECT password FROM users WHERE username = ?", "alice").Scan(&stored))
	assert.Assert(t, stored != "pa55word")
	assert.Assert(t, auth.VerifyPassword("pa55word", stored))
}

func TestUsernameWhitespaceRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, "  alice ", "pa55word")
	assert.NilError(t, err)
	assert.Equal(t, user.Username, "alice")

	var sess auth.Session
	_, err = f.auth.Login(ctx, &sess, "  alice ", "pa55word")
	assert.NilError(t, err)
	assert.Equal(t, sess.Username, "alice")

	_, err = f.auth.Authenticate(ctx, "alice", "pa55word")
	assert.NilError(t, err)

	_, err = f.auth.Register(ctx, "alice\t", "other")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestRegisterPasswordLength(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, "bob", strings.Repeat("x", auth.MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, f.count(t, "SELECT COUNT(*) FROM users"), 0)

	long := strings.Repeat("x", auth.MaxPasswordBytes)
	_, err = f.auth.Register(ctx, "bob", long)
	assert.NilError(t, err)
	var sess auth.Session
	_, err = f.auth.Login(ctx, &sess, "bob", long)
	assert.NilError(t, err)
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, "   ", "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.auth.Register(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, f.count(t, "SELECT COUNT(*) FROM users"), 0)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registered := f.register(t, "alice")

	var sess auth.Session
	_, err := f.auth.Login(ctx, &sess, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Assert(t, !sess.Authenticated())

	_, err = f.auth.Login(ctx, &sess, "nobody", "pa55word")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Assert(t, !sess.Authenticated())
	assert.Equal(t, f.count(t, "SELECT COUNT(*) FROM attendance"), 0)

	user, err := f.auth.Login(ctx, &sess, "alice", "pa55word")
	assert.NilError(t, err)
	assert.Equal(t, user.ID, registered.ID)
	assert.Equal(t, user.PasswordHash, "")
	assert.DeepEqual(t, sess, auth.Session{UserID: registered.ID, Username: "alice"})

	f.auth.Logout(&sess)
	assert.Assert(t, !sess.Authenticated())
}

func TestLoginRecordsAttendanceOncePerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice")

	for i := 0; i < 3; i++ {
		var sess auth.Session
		_, err := f.auth.Login(ctx, &sess, "alice", "pa55word")
		assert.NilError(t, err)
	}
	assert.Equal(t, f.count(t, "SELECT COUNT(*) FROM attendance WHERE user_id = ?", user.ID), 1)

	f.now = f.now.AddDate(0, 0, 1)
	var sess auth.Session
	_, err := f.auth.Login(ctx, &sess, "alice", "pa55word")
	assert.NilError(t, err)

	dates, err := f.attendance.DatesForMonth(ctx, user.ID, 2026, time.October)
	assert.NilError(t, err)
	assert.DeepEqual(t, dates, []string{"2026-10-14", "2026-10-15"})
}

func TestAttendanceRecordIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice")

	assert.NilError(t, f.attendance.Record(ctx, user.ID, f.now))
	assert.NilError(t, f.attendance.Record(ctx, user.ID, f.now.Add(3*time.Hour)))
	assert.Equal(t, f.count(t, "SELECT COUNT(*) FROM attendance"), 1)
}

func TestAttendanceRecordUnknownUserFails(t *testing.T) {
	f := newFixture(t)
	err := f.attendance.Record(context.Background(), 404, f.now)
	assert.ErrorContains(t, err, "failed to insert attendance")
}

type failingAttendance struct{ AttendanceServiceProvider }

func (failingAttendance) Record(context.Context, int64, time.Time) error {
	return errors.New("store unavailable")
}

func TestLoginSurvivesAttendanceFailure(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	svc := NewAuthService(f.db, failingAttendance{}, bcrypt.MinCost, func() time.Time { return f.now })

	var sess auth.Session
	_, err := svc.Login(context.Background(), &sess, "alice", "pa55word")
	assert.NilError(t, err)
	assert.Assert(t, sess.Authenticated())
}

func addWorkout(t *testing.T, f *fixture, userID int64, date, exercise string) models.Workout {
	t.Helper()
	w, err := f.workouts.AddEntry(context.Background(), models.Workout{
		UserID: userID, Date: date, Exercise: exercise, Weight: 50, Reps: 10, Sets: 3,
	})
	assert.NilError(t, err)
	return w
}

func TestWorkoutsAreIsolatedPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	added := addWorkout(t, f, alice.ID, "2026-10-14", "Deadlift")
	assert.Assert(t, added.ID > 0)

	mine, err := f.workouts.ListAll(ctx, alice.ID)
	assert.NilError(t, err)
	assert.DeepEqual(t, mine, []models.Workout{added})

	theirs, err := f.workouts.ListAll(ctx, bob.ID)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(theirs, 0))
}

func TestListAllNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice")

	addWorkout(t, f, user.ID, "2026-09-30", "Row")
	first := addWorkout(t, f, user.ID, "2026-10-14", "Squat")
	second := addWorkout(t, f, user.ID, "2026-10-14", "Bench Press")
	addWorkout(t, f, user.ID, "2026-10-01", "Press")

	got, err := f.workouts.ListAll(ctx, user.ID)
	assert.NilError(t, err)

	var order []string
	for _, w := range got {
		order = append(order, w.Date+" "+w.Exercise)
	}
	assert.DeepEqual(t, order, []string{
		"2026-10-14 Squat",
		"2026-10-14 Bench Press",
		"2026-10-01 Press",
		"2026-09-30 Row",
	})
	assert.Assert(t, first.ID < second.ID)
}

func TestListForMonthExcludesAdjacentMonths(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice")
	other := f.register(t, "bob")

	addWorkout(t, f, user.ID, "2026-09-30", "Row")
	addWorkout(t, f, user.ID, "2026-10-01", "Press")
	addWorkout(t, f, user.ID, "2026-10-31", "Squat")
	addWorkout(t, f, user.ID, "2026-11-01", "Curl")
	addWorkout(t, f, user.ID, "2025-10-15", "Lunge")
	addWorkout(t, f, other.ID, "2026-10-10", "Dip")

	got, err := f.workouts.ListForMonth(ctx, user.ID, 2026, time.October)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(got, 2))
	assert.Equal(t, got[0].Date, "2026-10-31")
	assert.Equal(t, got[1].Date, "2026-10-01")
}

func TestAddEntryRejectsInvalidWorkout(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "alice")

	_, err := f.workouts.AddEntry(context.Background(), models.Workout{UserID: user.ID, Date: "yesterday", Exercise: "Squat", Reps: 5, Sets: 5})
	var verr models.ValidationError
	assert.Assert(t, errors.As(err, &verr))
	assert.Equal(t, f.count(t, "SELECT COUNT(*) FROM workouts"), 0)
}

func TestMonthGrid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice")
	other := f.register(t, "bob")

	for _, day := range []string{"2026-10-01", "2026-10-14", "2026-10-31"} {
		d, err := time.Parse(models.DateLayout, day)
		assert.NilError(t, err)
		assert.NilError(t, f.attendance.Record(ctx, user.ID, d))
	}
	assert.NilError(t, f.attendance.Record(ctx, user.ID, time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)))
	assert.NilError(t, f.attendance.Record(ctx, other.ID, time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)))

	cal, err := f.attendance.MonthGrid(ctx, user.ID, 2026, time.October)
	assert.NilError(t, err)

	assert.Equal(t, len(cal.Weeks), 5)
	assert.Equal(t, cal.AttendedCount(), 3)

	var flagged []string
	cells := 0
	for _, week := range cal.Weeks {
		for _, day := range week {
			cells++
			if day.Blank() {
				assert.Assert(t, !day.Attended && !day.Today)
				continue
			}
			if day.Attended {
				flagged = append(flagged, day.Date)
			}
		}
	}
	assert.Equal(t, cells%7, 0)
	assert.DeepEqual(t, flagged, []string{"2026-10-01", "2026-10-14", "2026-10-31"})

	assert.Assert(t, cal.Weeks[0][0].Blank())
	assert.Equal(t, cal.Weeks[0][3].Date, "2026-10-01")
	assert.Assert(t, cal.Weeks[2][2].Today)
	assert.Equal(t, cal.Weeks[2][2].Date, "2026-10-14")
}
