package appointment

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"frontdesk/models"

	"github.com/go-playground/validator/v10"
)

const (
	DateLayout  = "02-01-2006"
	clockLayout = "15:04"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// CanonicalDate parses a dd-mm-yyyy date, accepting single digit day and month, and
// returns the zero-padded form used as calendar key.
func CanonicalDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, err = time.Parse("2-1-2006", s)
	}
	if err != nil {
		return "", fmt.Errorf("date %q is not in dd-mm-yyyy format", s)
	}
	return t.Format(DateLayout), nil
}

// CanonicalClock parses an HH:MM time and returns it zero-padded.
func CanonicalClock(s string) (string, error) {
	m, ok := clockMinutes(s)
	if !ok {
		return "", fmt.Errorf("time %q is not in HH:MM format", strings.TrimSpace(s))
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60), nil
}

func clockMinutes(s string) (int, bool) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// compareClock orders two HH:MM values by time of day. Values that do not parse are
// compared as plain strings.
func compareClock(a, b string) int {
	am, aok := clockMinutes(a)
	bm, bok := clockMinutes(b)
	if aok && bok {
		switch {
		case am < bm:
			return -1
		case am > bm:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// timeRange is a validated, canonical [start, end] pair on one date.
type timeRange struct {
	date  string
	start string
	end   string
}

func parseRange(date, start, end string) (timeRange, error) {
	var problems []string
	d, err := CanonicalDate(date)
	if err != nil {
		problems = append(problems, err.Error())
	}
	st, err := CanonicalClock(start)
	if err != nil {
		problems = append(problems, "start "+err.Error())
	}
	en, err := CanonicalClock(end)
	if err != nil {
		problems = append(problems, "end "+err.Error())
	}
	if len(problems) == 0 && compareClock(st, en) >= 0 {
		problems = append(problems, fmt.Sprintf("start time %s must be before end time %s", st, en))
	}
	if len(problems) > 0 {
		return timeRange{}, newValidation(strings.Join(problems, "; "))
	}
	return timeRange{date: d, start: st, end: en}, nil
}

// validBooking is a booking request that passed the boundary checks.
type validBooking struct {
	req       models.BookingRequest
	visitType models.VisitType
	rng       timeRange
}

func validateBookingRequest(req models.BookingRequest) (validBooking, error) {
	req = trimRequest(req)

	var problems []string
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return validBooking{}, newValidation(err.Error())
		}
		for _, fe := range verrs {
			problems = append(problems, fe.Field()+" is required")
		}
		return validBooking{}, newValidation(strings.Join(problems, "; "))
	}

	vt, err := models.ParseVisitType(req.VisitType)
	if err != nil {
		problems = append(problems, fmt.Sprintf("%v, expected one of %s", err, strings.Join(models.VisitTypeStrings(), ", ")))
	}
	rng, err := parseRange(req.AppointmentDate, req.AppointmentStartTime, req.AppointmentEndTime)
	if err != nil {
		problems = append(problems, ErrorMessage(err))
	}
	if len(problems) > 0 {
		return validBooking{}, newValidation(strings.Join(problems, "; "))
	}
	return validBooking{req: req, visitType: vt, rng: rng}, nil
}

func trimRequest(req models.BookingRequest) models.BookingRequest {
	req.VisitType = strings.TrimSpace(req.VisitType)
	req.ReasonForTheVisit = strings.TrimSpace(req.ReasonForTheVisit)
	req.Name = strings.TrimSpace(req.Name)
	req.DateOfBirth = strings.TrimSpace(req.DateOfBirth)
	req.MobileNumber = strings.TrimSpace(req.MobileNumber)
	req.InsuranceName = strings.TrimSpace(req.InsuranceName)
	req.AppointmentDate = strings.TrimSpace(req.AppointmentDate)
	req.AppointmentStartTime = strings.TrimSpace(req.AppointmentStartTime)
	req.AppointmentEndTime = strings.TrimSpace(req.AppointmentEndTime)
	return req
}

// normalizeSlots canonicalizes slot times, sorts by start and rejects empty or
// overlapping slots.
func normalizeSlots(slots []models.Slot) ([]models.Slot, error) {
	out := make([]models.Slot, 0, len(slots))
	for i, slot := range slots {
		start, err := CanonicalClock(slot.StartTime)
		if err != nil {
			return nil, newValidation(fmt.Sprintf("slot %d: start %v", i, err))
		}
		end, err := CanonicalClock(slot.EndTime)
		if err != nil {
			return nil, newValidation(fmt.Sprintf("slot %d: end %v", i, err))
		}
		if compareClock(start, end) >= 0 {
			return nil, newValidation(fmt.Sprintf("slot %d: start %s must be before end %s", i, start, end))
		}
		out = append(out, models.Slot{StartTime: start, EndTime: end, Availability: slot.Availability})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return compareClock(out[i].StartTime, out[j].StartTime) < 0
	})
	for i := 1; i < len(out); i++ {
		if compareClock(out[i].StartTime, out[i-1].EndTime) < 0 {
			return nil, newValidation(fmt.Sprintf("slot %s-%s overlaps %s-%s",
				out[i].StartTime, out[i].EndTime, out[i-1].StartTime, out[i-1].EndTime))
		}
	}
	return out, nil
}

// slotsWithin returns the indices of the slots fully contained in [start, end], bounds
// inclusive.
func slotsWithin(slots []models.Slot, start, end string) []int {
	var idx []int
	for i, slot := range slots {
		if compareClock(slot.StartTime, start) >= 0 && compareClock(slot.EndTime, end) <= 0 {
			idx = append(idx, i)
		}
	}
	return idx
}
