package availability

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/platform/clinicerr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput is the write shape shared by Create and Update.
type CreateInput struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

func (in CreateInput) validate() (start, end int, err error) {
	if in.DoctorID == uuid.Nil {
		return 0, 0, clinicerr.Validationf("doctor_id is required")
	}
	if _, err := parseDate(in.Date); err != nil {
		return 0, 0, clinicerr.Validationf("%v", err)
	}
	start, perr := parseClock(in.StartTime)
	if perr != nil {
		return 0, 0, clinicerr.Validationf("%v", perr)
	}
	end, perr = parseClock(in.EndTime)
	if perr != nil {
		return 0, 0, clinicerr.Validationf("%v", perr)
	}
	if start >= end {
		return 0, 0, clinicerr.Validationf("start_time must be before end_time")
	}
	return start, end, nil
}

// checkConflict rejects a window that intersects any other window the doctor
// already has on the date. exclude skips the row being updated.
func (s *Service) checkConflict(ctx context.Context, in CreateInput, start, end int, exclude uuid.UUID) error {
	existing, err := s.repo.ListByDoctorDate(ctx, in.DoctorID, in.Date)
	if err != nil {
		return clinicerr.Internalf(err, "list availability")
	}
	for _, other := range existing {
		if other.ID == exclude {
			continue
		}
		oStart, err := parseClock(other.StartTime)
		if err != nil {
			return clinicerr.Internalf(err, "stored start_time is malformed")
		}
		oEnd, err := parseClock(other.EndTime)
		if err != nil {
			return clinicerr.Internalf(err, "stored end_time is malformed")
		}
		if overlaps(start, end, oStart, oEnd) {
			return clinicerr.Conflictf("availability overlaps an existing window").
				WithDetail("conflicting_id", other.ID)
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Availability, error) {
	start, end, err := in.validate()
	if err != nil {
		return nil, err
	}
	if err := s.checkConflict(ctx, in, start, end, uuid.Nil); err != nil {
		return nil, err
	}

	a := &Availability{
		DoctorID:  in.DoctorID,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, clinicerr.Internalf(err, "create availability")
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in CreateInput) (*Availability, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, clinicerr.FromPG(err, "availability not found")
	}

	// Update keeps the row's doctor; the payload cannot move a window to
	// another doctor.
	in.DoctorID = existing.DoctorID

	start, end, err := in.validate()
	if err != nil {
		return nil, err
	}
	if err := s.checkConflict(ctx, in, start, end, id); err != nil {
		return nil, err
	}

	existing.Date = in.Date
	existing.StartTime = in.StartTime
	existing.EndTime = in.EndTime
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, clinicerr.Internalf(err, "update availability")
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return clinicerr.FromPG(err, "availability not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return clinicerr.Internalf(err, "delete availability")
	}
	return nil
}

// GetSlots expands the doctor's windows on a date into 30-minute starts,
// ascending. No window means not available.
func (s *Service) GetSlots(ctx context.Context, doctorID uuid.UUID, date string) (*Slots, error) {
	if _, err := parseDate(date); err != nil {
		return nil, clinicerr.Validationf("%v", err)
	}

	windows, err := s.repo.ListByDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, clinicerr.Internalf(err, "list availability")
	}
	if len(windows) == 0 {
		return &Slots{Available: false, TimeSlots: []string{}}, nil
	}

	var all []string
	for _, w := range windows {
		slots, err := expandSlots(w.StartTime, w.EndTime)
		if err != nil {
			return nil, clinicerr.Internalf(err, "stored window is malformed")
		}
		all = append(all, slots...)
	}
	return &Slots{Available: true, TimeSlots: all}, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*Availability, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, clinicerr.Internalf(err, "list availability")
	}
	if items == nil {
		items = []*Availability{}
	}
	return items, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Availability, error) {
	items, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, clinicerr.Internalf(err, "list availability")
	}
	if items == nil {
		items = []*Availability{}
	}
	return items, nil
}
