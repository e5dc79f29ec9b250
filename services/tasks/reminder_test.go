package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"frontdesk/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type fakeDeleter struct {
	deleted []string
	err     error
}

func (f *fakeDeleter) DeleteTask(queue, id string) error {
	f.deleted = append(f.deleted, queue+"/"+id)
	return f.err
}

func testBooking() *models.Booking {
	return &models.Booking{
		ID:                   primitive.NewObjectID(),
		Name:                 "Sam Rivera",
		MobileNumber:         "+17135550100",
		AppointmentDate:      "14-10-2026",
		AppointmentStartTime: "11:00",
		AppointmentEndTime:   "12:00",
	}
}

func TestReminderFireTime(t *testing.T) {
	b := testBooking()
	now := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)

	fireAt, ok, err := ReminderFireTime(b, 24*time.Hour, time.UTC, now)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 10, 13, 11, 0, 0, 0, time.UTC), fireAt)

	_, ok, err = ReminderFireTime(b, 72*time.Hour, time.UTC, now)
	require.NoError(t, err)
	assert.False(t, ok)

	b.AppointmentDate = "someday"
	_, _, err = ReminderFireTime(b, time.Hour, time.UTC, now)
	assert.Error(t, err)
}

func TestScheduleReminderEnqueuesPayload(t *testing.T) {
	enq := &fakeEnqueuer{}
	now := func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }
	r := newReminderScheduler(enq, &fakeDeleter{}, 24*time.Hour, time.UTC, now, zaptest.NewLogger(t))
	b := testBooking()

	require.NoError(t, r.ScheduleReminder(context.Background(), b))
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TypeSendReminder, enq.tasks[0].Type())

	var p models.ReminderPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &p))
	assert.Equal(t, b.ID.Hex(), p.BookingID)
	assert.Equal(t, "+17135550100", p.MobileNumber)
	assert.Equal(t, "2026-10-13T11:00:00Z", p.FireDate)
}

func TestScheduleReminderSkipsPastAndDuplicates(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }

	enq := &fakeEnqueuer{}
	r := newReminderScheduler(enq, &fakeDeleter{}, 24*time.Hour, time.UTC, now, nil)
	require.NoError(t, r.ScheduleReminder(context.Background(), testBooking()))
	assert.Empty(t, enq.tasks)

	dup := &fakeEnqueuer{err: asynq.ErrTaskIDConflict}
	r = newReminderScheduler(dup, &fakeDeleter{}, time.Hour, time.UTC, now, nil)
	assert.NoError(t, r.ScheduleReminder(context.Background(), testBooking()))

	broken := &fakeEnqueuer{err: errors.New("redis down")}
	r = newReminderScheduler(broken, &fakeDeleter{}, time.Hour, time.UTC, now, nil)
	assert.Error(t, r.ScheduleReminder(context.Background(), testBooking()))
}

func TestCancelReminder(t *testing.T) {
	del := &fakeDeleter{}
	r := newReminderScheduler(&fakeEnqueuer{}, del, time.Hour, time.UTC, time.Now, nil)

	require.NoError(t, r.CancelReminder(context.Background(), "abc"))
	assert.Equal(t, []string{"default/reminder:abc"}, del.deleted)

	del.err = asynq.ErrTaskNotFound
	assert.NoError(t, r.CancelReminder(context.Background(), "abc"))

	del.err = errors.New("redis down")
	assert.Error(t, r.CancelReminder(context.Background(), "abc"))
}
